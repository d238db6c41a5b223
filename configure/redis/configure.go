package redis

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/gocrud/ioc/core"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

// Configure 返回 Redis 配置器
// 每个命名客户端以 ClientId(name) 登记到容器；
// 名为 "default" 的客户端额外以 di.Id[*redis.Client]() 登记。
//
// 使用示例: builder.Configure(redis.Configure(func(b *redis.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder()
		if options != nil {
			options(builder)
		}

		factory, err := builder.Build(ctx.GetLogger())
		if err != nil {
			ctx.GetLogger().Fatal("Failed to build redis clients",
				logging.Field{Key: "error", Value: err.Error()})
		}
		if factory == nil {
			return
		}

		container := ctx.Container()
		container.Instance(di.Id[*ClientFactory](), factory)

		for _, name := range factory.Names() {
			client, _ := factory.Get(name)
			container.Instance(ClientId(name), client)
			if name == "default" {
				container.Instance(di.Id[*goredis.Client](), client)
			}
		}

		ctx.SetCleanup("redis", func() {
			ctx.GetLogger().Info("Closing redis clients")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close redis clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
