package web

import (
	"github.com/gin-gonic/gin"

	"github.com/gocrud/ioc/core"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

// Configure 返回 Web 配置器
// 端口优先读取配置项 web:port，options 中的显式设置可以覆盖。
//
// 使用示例: builder.Configure(web.Configure(func(b *web.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx.GetLogger())

		if port, err := ctx.GetConfiguration().GetInt("web:port"); err == nil && port > 0 {
			builder.UsePort(port)
		}
		if options != nil {
			options(builder)
		}

		// Gin 引擎登记到容器，其他配置器可以继续挂路由
		ctx.Container().Instance(di.Id[*gin.Engine](), builder.Engine())

		webHost := builder.Build(ctx.Container())
		ctx.AddHostedService(webHost)

		ctx.GetLogger().Info("Web host configured",
			logging.Field{Key: "port", Value: webHost.port})
	}
}
