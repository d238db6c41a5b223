package mongodb

import (
	"github.com/gocrud/mgo"

	"github.com/gocrud/ioc/core"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

// Configure 返回 MongoDB 配置器
// 每个命名客户端以 ClientId(name) 登记到容器；
// 名为 "default" 的客户端额外以 di.Id[*mgo.Client]() 登记。
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		factory, err := builder.Build(ctx.GetLogger())
		if err != nil {
			ctx.GetLogger().Fatal("Failed to build mongodb clients",
				logging.Field{Key: "error", Value: err.Error()})
		}
		if factory == nil {
			return
		}

		container := ctx.Container()
		container.Instance(di.Id[*MongoFactory](), factory)

		factory.Each(func(name string, client *mgo.Client) {
			container.Instance(ClientId(name), client)
			ctx.GetLogger().Info("Mongo client registered to container",
				logging.Field{Key: "name", Value: name})

			if name == "default" {
				container.Instance(di.Id[*mgo.Client](), client)
			}
		})

		ctx.SetCleanup("mongodb", func() {
			ctx.GetLogger().Info("Closing mongo clients")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close mongo clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
