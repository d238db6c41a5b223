package core

import (
	"sync"

	"github.com/gocrud/ioc/config"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/hosting"
	"github.com/gocrud/ioc/logging"
)

// Configurator 配置器函数类型
// 配置器用于扩展应用程序，可以注册服务、添加托管服务等。
type Configurator func(*BuildContext)

// ConfigurationContext 配置器可见的受限上下文
// 模块 Builder 通过它读取配置和日志，但不能注册服务。
type ConfigurationContext interface {
	GetConfiguration() config.Configuration
	GetLogger() logging.Logger
	GetEnvironment() Environment
}

// BuildContext 构建上下文
// 提供给配置器的上下文环境，包含容器、配置、日志等核心组件。
type BuildContext struct {
	container     *di.Container
	configuration config.Configuration
	logger        logging.Logger
	environment   Environment

	// hostedServices 直接添加的托管服务实例
	hostedServices []hosting.HostedService

	// hostedServiceIds 延迟到容器构建完成后解析的托管服务标识
	hostedServiceIds []di.AbstractId

	// cleanups 清理函数列表，应用关闭时执行
	cleanups map[string]func()

	// lifecycle 应用级启动与停止钩子
	lifecycle *LifecycleEvents

	mu sync.Mutex
}

// Lifecycle 获取生命周期事件注册器
// 配置器可以在此注册应用启动前、停止时执行的钩子。
func (c *BuildContext) Lifecycle() *LifecycleEvents {
	return c.lifecycle
}

// Container 返回底层的解析容器
// 允许直接使用 di 包的注册与解析 API。
func (c *BuildContext) Container() *di.Container {
	return c.container
}

// AddHostedService 添加托管服务实例
func (c *BuildContext) AddHostedService(service hosting.HostedService) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hostedServices = append(c.hostedServices, service)
}

// AddHostedServiceId 按抽象标识添加托管服务
// 服务在容器就绪后解析，解析结果必须实现 hosting.HostedService。
func (c *BuildContext) AddHostedServiceId(id di.AbstractId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hostedServiceIds = append(c.hostedServiceIds, id)
}

// SetCleanup 设置资源清理函数
// 同名清理函数覆盖旧的。
func (c *BuildContext) SetCleanup(key string, cleanup func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanups[key] = cleanup
}

// GetLogger 获取日志记录器
func (c *BuildContext) GetLogger() logging.Logger {
	return c.logger
}

// GetConfiguration 获取配置对象
func (c *BuildContext) GetConfiguration() config.Configuration {
	return c.configuration
}

// GetEnvironment 获取环境信息
func (c *BuildContext) GetEnvironment() Environment {
	return c.environment
}
