package etcd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
		name      string
		configure func(*ClientOptions)
		wantErr   bool
	}{
		{"valid defaults", nil, false},
		{"no endpoints", func(o *ClientOptions) { o.Endpoints = nil }, true},
		{"bad timeout", func(o *ClientOptions) { o.DialTimeout = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := NewDefaultOptions("main")
			if tc.configure != nil {
				tc.configure(opts)
			}
			err := opts.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuilderRegistersClients(t *testing.T) {
	builder := NewBuilder(nil)
	builder.AddClient("default", func(o *ClientOptions) {
		o.Endpoints = []string{"localhost:2379"}
	})

	factory, err := builder.Build(newTestLogger())
	require.NoError(t, err)
	require.NotNil(t, factory)

	client, err := factory.Get("default")
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = factory.Get("missing")
	assert.Error(t, err)

	assert.NoError(t, factory.Close())
}

func TestBuilderRejectsDuplicateName(t *testing.T) {
	builder := NewBuilder(nil)
	builder.AddClient("dup", nil)
	builder.AddClient("dup", nil)

	_, err := builder.Build(newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already configured")
}

func TestBuilderWithoutClientsReturnsNil(t *testing.T) {
	factory, err := NewBuilder(nil).Build(newTestLogger())
	require.NoError(t, err)
	assert.Nil(t, factory)
}
