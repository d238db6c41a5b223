package database

import (
	"gorm.io/gorm"

	"github.com/gocrud/ioc/core"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

// Configure 返回数据库配置器
// 每个命名实例以 DatabaseId(name) 登记到容器；
// 名为 "default" 的实例额外以 di.Id[*gorm.DB]() 登记。
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		factory, err := builder.Build(ctx.GetLogger())
		if err != nil {
			ctx.GetLogger().Fatal("Failed to build databases",
				logging.Field{Key: "error", Value: err.Error()})
		}
		if factory == nil {
			return
		}

		container := ctx.Container()
		container.Instance(di.Id[*Factory](), factory)

		factory.Each(func(name string, db *gorm.DB) {
			container.Instance(DatabaseId(name), db)
			ctx.GetLogger().Info("Database registered to container",
				logging.Field{Key: "name", Value: name})

			if name == "default" {
				container.Instance(di.Id[*gorm.DB](), db)
			}
		})

		ctx.SetCleanup("database", func() {
			ctx.GetLogger().Info("Closing database connections")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close databases",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
