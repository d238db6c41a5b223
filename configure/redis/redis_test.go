package redis

import (
	"bytes"
	"testing"

	goredis "github.com/redis/go-redis/v9"
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

func TestBuilderRegistersNamedClients(t *testing.T) {
	builder := NewBuilder()
	builder.AddClient("cache", func(o *ClientOptions) {
		o.Addr = "localhost:6379"
		o.DB = 1
	})
	builder.AddClient("queue", nil)

	factory, err := builder.Build(newTestLogger())
	require.NoError(t, err)
	require.NotNil(t, factory)

	cache, err := factory.Get("cache")
	require.NoError(t, err)
	assert.NotNil(t, cache)

	_, err = factory.Get("missing")
	assert.Error(t, err)

	assert.ElementsMatch(t, []string{"cache", "queue"}, factory.Names())
	assert.NoError(t, factory.Close())
}

func TestBuilderRejectsInvalidOptions(t *testing.T) {
	builder := NewBuilder()
	builder.AddClient("invalid", func(o *ClientOptions) {
		o.Addr = ""
	})

	_, err := builder.Build(newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestBuilderRejectsDuplicateName(t *testing.T) {
	builder := NewBuilder()
	builder.AddClient("dup", nil)
	builder.AddClient("dup", nil)

	_, err := builder.Build(newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestBuilderWithoutClientsReturnsNil(t *testing.T) {
	factory, err := NewBuilder().Build(newTestLogger())
	require.NoError(t, err)
	assert.Nil(t, factory)
}

func TestClientIdIsNameQualified(t *testing.T) {
	assert.Equal(t, di.Id[*goredis.Client]()+"#cache", ClientId("cache"))
	assert.NotEqual(t, ClientId("cache"), ClientId("queue"))
}
