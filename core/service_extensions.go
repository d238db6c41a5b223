package core

import (
	"fmt"
	"reflect"

	"github.com/gocrud/ioc/di"
)

// AddSingleton 以类型 T 的规范标识注册单例绑定
// concrete 可以是另一个抽象标识，也可以是 di.Factory。
//
// 示例:
//
//	core.AddSingleton[*redis.Client](ctx, di.Factory(func(c *di.Container) (any, error) {
//	    return newClient(), nil
//	}))
func AddSingleton[T any](ctx *BuildContext, concrete any) {
	ctx.Container().Singleton(di.Id[T](), concrete)
}

// AddTransient 以类型 T 的规范标识注册瞬态绑定
func AddTransient[T any](ctx *BuildContext, concrete any) {
	ctx.Container().Bind(di.Id[T](), concrete)
}

// AddInstance 以类型 T 的规范标识登记已构建的单例实例
func AddInstance[T any](ctx *BuildContext, value T) {
	ctx.Container().Instance(di.Id[T](), value)
}

// AddFactory 以类型 T 的规范标识注册单例工厂
// 与 AddSingleton 等价，但工厂的返回值带类型检查。
func AddFactory[T any](ctx *BuildContext, factory func(c *di.Container) (T, error)) {
	ctx.Container().Singleton(di.Id[T](), di.Factory(func(c *di.Container) (any, error) {
		return factory(c)
	}))
}

// GetService 从上下文的容器解析类型 T 的服务
func GetService[T any](ctx *BuildContext) (T, error) {
	return di.Resolve[T](ctx.Container())
}

// resolveServiceInto 按指针参数的元素类型从容器解析服务并写入
// 供 Application.GetService 使用。
func resolveServiceInto(c *di.Container, ptr any) error {
	ptrValue := reflect.ValueOf(ptr)
	if ptrValue.Kind() != reflect.Pointer || ptrValue.IsNil() {
		return fmt.Errorf("core: GetService argument must be a non-nil pointer, got %T", ptr)
	}

	elemValue := ptrValue.Elem()
	if !elemValue.CanSet() {
		return fmt.Errorf("core: GetService argument must be settable")
	}

	instance, err := c.Resolve(di.IdForType(elemValue.Type()))
	if err != nil {
		return err
	}
	if instance == nil {
		elemValue.Set(reflect.Zero(elemValue.Type()))
		return nil
	}

	instValue := reflect.ValueOf(instance)
	if !instValue.Type().AssignableTo(elemValue.Type()) {
		return fmt.Errorf("core: service resolved to %T, want %v", instance, elemValue.Type())
	}
	elemValue.Set(instValue)
	return nil
}
