// Package di 实现一个以抽象标识为键的解析容器。
//
// 容器支持三种绑定策略：瞬态（每次解析新建）、单例（首次构建后缓存）、
// 工厂闭包（构造逻辑完全交给调用方）。没有显式绑定的标识走自动装配：
// 根据事先登记的类型描述符检查构造函数参数，递归解析类型依赖，
// 基本类型参数回退到默认值。
package di

import (
	"fmt"
	"reflect"
)

// Id 返回类型 T 的规范抽象标识（包路径限定的类型名）
//
// 示例：
//
//	di.Id[*UserService]()   // "*github.com/acme/svc.UserService"
//	di.Id[logging.Logger]() // "github.com/gocrud/ioc/logging.Logger"
func Id[T any]() AbstractId {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	return typeId(typ)
}

// IdOf 返回值 v 的动态类型的规范抽象标识
func IdOf(v any) AbstractId {
	return typeId(reflect.TypeOf(v))
}

// IdForType 返回 reflect.Type 的规范抽象标识
// 供无法使用泛型的反射代码使用。
func IdForType(typ reflect.Type) AbstractId {
	return typeId(typ)
}

func typeId(typ reflect.Type) AbstractId {
	if typ.Kind() == reflect.Ptr {
		return "*" + typeId(typ.Elem())
	}
	if typ.PkgPath() == "" {
		return typ.String()
	}
	return typ.PkgPath() + "." + typ.Name()
}

// Resolve 按类型 T 的规范标识解析并断言为 T
func Resolve[T any](c *Container) (T, error) {
	return ResolveId[T](c, Id[T]())
}

// ResolveId 按指定标识解析并断言为 T
func ResolveId[T any](c *Container, id AbstractId) (T, error) {
	var zero T

	inst, err := c.Resolve(id)
	if err != nil {
		return zero, err
	}
	if inst == nil {
		return zero, nil
	}

	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("di: %s resolved to %T, expected %v",
			id, inst, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}

// MustResolveId 与 ResolveId 相同，失败时 panic
// 仅建议在程序启动阶段使用。
func MustResolveId[T any](c *Container, id AbstractId) T {
	typed, err := ResolveId[T](c, id)
	if err != nil {
		panic(fmt.Sprintf("di: resolve %s: %v", id, err))
	}
	return typed
}
