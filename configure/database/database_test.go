package database_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gocrud/ioc/config"
	"github.com/gocrud/ioc/configure/database"
	"github.com/gocrud/ioc/core"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

type User struct {
	gorm.Model
	Name string
}

// DBConfig 模拟用户定义的配置结构
type DBConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
}

func newTestLogger() logging.Logger {
	return logging.NewLoggingBuilder().
		UseWriter(&bytes.Buffer{}).
		Build().
		CreateLogger("test")
}

func TestDatabaseConfiguration(t *testing.T) {
	builder := core.NewApplicationBuilder()

	builder.ConfigureConfiguration(func(cb *config.ConfigurationBuilder) {
		cb.AddInMemory(map[string]any{
			"db": map[string]any{
				"master": map[string]any{
					"dsn":          "file::memory:?cache=shared",
					"maxOpenConns": 5,
				},
			},
		})
	})

	builder.Configure(database.Configure(func(b *database.Builder) {
		dbConf, err := config.Load[DBConfig](b.ConfigContext().GetConfiguration(), "db.master")
		require.NoError(t, err)

		b.Add("master", sqlite.Open(dbConf.DSN), func(o *database.Options) {
			o.MaxOpenConns = dbConf.MaxOpenConns
			o.AutoMigrate = []any{&User{}}
		})
	}))

	app := builder.Build()

	inst, err := app.Services().Resolve(database.DatabaseId("master"))
	require.NoError(t, err)
	master := inst.(*gorm.DB)

	sqlDB, err := master.DB()
	require.NoError(t, err)
	assert.Equal(t, 5, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, master.Create(&User{Name: "test"}).Error)

	var count int64
	require.NoError(t, master.Model(&User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	factory, err := di.Resolve[*database.Factory](app.Services())
	require.NoError(t, err)
	assert.NoError(t, factory.Close())
}

func TestDefaultDatabaseRegisteredUnnamed(t *testing.T) {
	builder := core.NewApplicationBuilder()
	builder.Configure(database.Configure(func(b *database.Builder) {
		b.Add("default", sqlite.Open(":memory:"), nil)
	}))

	app := builder.Build()

	db, err := di.Resolve[*gorm.DB](app.Services())
	require.NoError(t, err)
	assert.NotNil(t, db)
}

func TestBuilderErrors(t *testing.T) {
	t.Run("missing dialector", func(t *testing.T) {
		b := database.NewBuilder(nil)
		b.Add("invalid", nil, nil)
		_, err := b.Build(newTestLogger())
		require.Error(t, err)
	})

	t.Run("duplicate name", func(t *testing.T) {
		b := database.NewBuilder(nil)
		b.Add("dup", sqlite.Open(":memory:"), nil)
		b.Add("dup", sqlite.Open(":memory:"), nil)
		_, err := b.Build(newTestLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("no configs", func(t *testing.T) {
		factory, err := database.NewBuilder(nil).Build(newTestLogger())
		require.NoError(t, err)
		assert.Nil(t, factory)
	})
}
