package mongodb

import (
	"bytes"
	"testing"

	"github.com/gocrud/mgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

func newTestLogger() logging.Logger {
	return logging.NewLoggingBuilder().
		UseWriter(&bytes.Buffer{}).
		Build().
		CreateLogger("test")
}

func TestOptionsValidation(t *testing.T) {
	cases := []struct {
		name    string
		opts    *MongoOptions
		wantErr bool
	}{
		{"valid", NewDefaultOptions("main", "mongodb://localhost:27017"), false},
		{"missing name", NewDefaultOptions("", "mongodb://localhost:27017"), true},
		{"missing uri", NewDefaultOptions("main", ""), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuilderCollectsConfigurationErrors(t *testing.T) {
	builder := NewBuilder(nil)
	builder.Add("invalid", "", nil)

	_, err := builder.Build(newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo configuration errors")
}

func TestBuilderRejectsDuplicateName(t *testing.T) {
	builder := NewBuilder(nil)
	builder.Add("dup", "mongodb://localhost:27017", nil)
	builder.Add("dup", "mongodb://localhost:27017", nil)

	_, err := builder.Build(newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already configured")
}

func TestBuilderWithoutClientsReturnsNil(t *testing.T) {
	factory, err := NewBuilder(nil).Build(newTestLogger())
	require.NoError(t, err)
	assert.Nil(t, factory)
}

func TestFactoryGetUnknownClient(t *testing.T) {
	factory := NewMongoFactory()
	_, err := factory.Get("missing")
	assert.Error(t, err)
}

func TestClientIdIsNameQualified(t *testing.T) {
	assert.Equal(t, di.Id[*mgo.Client]()+"#main", ClientId("main"))
}
