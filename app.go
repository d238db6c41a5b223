// Package ioc 提供一个以抽象标识为键的解析容器，
// 以及围绕它的应用程序构建与托管服务运行时。
package ioc

import "github.com/gocrud/ioc/core"

// NewApplicationBuilder 创建应用程序构建器
// 这是创建应用程序的入口点
func NewApplicationBuilder() *core.ApplicationBuilder {
	return core.NewApplicationBuilder()
}
