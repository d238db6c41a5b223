package etcd

import (
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/gocrud/ioc/core"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

// Configure 返回 etcd 配置器
// 每个命名客户端以 ClientId(name) 登记到容器；
// 名为 "default" 的客户端额外以 di.Id[*clientv3.Client]() 登记。
//
// 使用示例: builder.Configure(etcd.Configure(func(b *etcd.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		factory, err := builder.Build(ctx.GetLogger())
		if err != nil {
			ctx.GetLogger().Fatal("Failed to build etcd clients",
				logging.Field{Key: "error", Value: err.Error()})
		}
		if factory == nil {
			return
		}

		container := ctx.Container()
		container.Instance(di.Id[*ClientFactory](), factory)

		factory.Each(func(name string, client *clientv3.Client) {
			container.Instance(ClientId(name), client)
			if name == "default" {
				container.Instance(di.Id[*clientv3.Client](), client)
			}
		})

		ctx.SetCleanup("etcd", func() {
			ctx.GetLogger().Info("Closing etcd clients")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close etcd clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
