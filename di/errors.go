package di

import "errors"

// 容器核心错误定义
// 工厂函数内部的错误不在此列，它们原样透传给 Resolve 的调用者
var (
	// ErrUnresolvable 抽象标识既没有绑定，也没有可用的类型描述符
	ErrUnresolvable = errors.New("di: no binding or type descriptor for abstract id")

	// ErrCyclicDependency 解析过程中在同一调用栈上重复进入同一个抽象标识
	ErrCyclicDependency = errors.New("di: cyclic dependency detected")

	// ErrInstantiation 构造函数拒绝装配好的参数（数量或类型不匹配）
	ErrInstantiation = errors.New("di: constructor rejected assembled arguments")

	// ErrInvalidDescriptor 类型描述符本身不合法（构造函数不是函数、参数数量不符等）
	ErrInvalidDescriptor = errors.New("di: invalid type descriptor")
)
