package di

import (
	"fmt"
	"reflect"
	"sync"
)

// Param 描述构造函数的一个参数
type Param struct {
	// Name 参数名（仅用于错误信息）
	Name string

	// Primitive 是否为基本类型参数
	// 基本类型参数不走容器解析，直接使用 Default（缺省时使用零值）
	Primitive bool

	// Dependency 非基本类型参数的依赖抽象标识
	Dependency AbstractId

	// Default 基本类型参数的默认值（可选）
	Default any
}

// TypeDescriptor 类型描述符
// 描述一个可自动装配类型的构造方式：构造函数 + 按声明顺序排列的参数列表。
// 容器不做任意类型的运行时自省，所有可自动解析的类型都必须先登记描述符。
type TypeDescriptor struct {
	// Id 该类型的抽象标识
	Id AbstractId

	// Constructor 构造函数
	// 签名约定与工厂一致：返回 (T) 或 (T, error)
	Constructor any

	// Params 构造函数参数（声明顺序）
	Params []Param
}

// DescriptorSource 类型描述符提供者
// 容器通过它查询某个抽象标识的构造元数据；查不到时返回 ok=false。
type DescriptorSource interface {
	Describe(id AbstractId) (*TypeDescriptor, bool)
}

// DescriptorRegistry 默认的描述符登记表
type DescriptorRegistry struct {
	mu          sync.RWMutex
	descriptors map[AbstractId]*TypeDescriptor
}

// NewDescriptorRegistry 创建空的描述符登记表
func NewDescriptorRegistry() *DescriptorRegistry {
	return &DescriptorRegistry{
		descriptors: make(map[AbstractId]*TypeDescriptor),
	}
}

// Register 登记一个类型描述符
// 重复登记同一标识会覆盖旧条目。
func (r *DescriptorRegistry) Register(desc *TypeDescriptor) error {
	if err := validateDescriptor(desc); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[desc.Id] = desc
	return nil
}

// Describe 实现 DescriptorSource
func (r *DescriptorRegistry) Describe(id AbstractId) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[id]
	return desc, ok
}

// validateDescriptor 在登记时做一次性校验，解析路径上就不用再防御了
func validateDescriptor(desc *TypeDescriptor) error {
	if desc == nil || desc.Id == "" {
		return fmt.Errorf("%w: missing abstract id", ErrInvalidDescriptor)
	}
	if desc.Constructor == nil {
		return fmt.Errorf("%w: %s: missing constructor", ErrInvalidDescriptor, desc.Id)
	}

	ctorType := reflect.TypeOf(desc.Constructor)
	if ctorType.Kind() != reflect.Func {
		return fmt.Errorf("%w: %s: constructor must be a function, got %T",
			ErrInvalidDescriptor, desc.Id, desc.Constructor)
	}
	if ctorType.IsVariadic() {
		return fmt.Errorf("%w: %s: variadic constructors are not supported",
			ErrInvalidDescriptor, desc.Id)
	}
	if ctorType.NumIn() != len(desc.Params) {
		return fmt.Errorf("%w: %s: constructor takes %d arguments but %d params are described",
			ErrInvalidDescriptor, desc.Id, ctorType.NumIn(), len(desc.Params))
	}
	if ctorType.NumOut() == 0 {
		return fmt.Errorf("%w: %s: constructor must return at least one value",
			ErrInvalidDescriptor, desc.Id)
	}

	for i, p := range desc.Params {
		if !p.Primitive && p.Dependency == "" {
			return fmt.Errorf("%w: %s: param %d (%s) is not primitive but has no dependency id",
				ErrInvalidDescriptor, desc.Id, i, p.Name)
		}
	}

	return nil
}

// invokeConstructor 通过反射调用构造函数
// 返回值约定：第一个返回值是实例，最后一个返回值若为 error 且非 nil 则透传。
func invokeConstructor(id AbstractId, ctor any, args []reflect.Value) (any, error) {
	ctorVal := reflect.ValueOf(ctor)
	ctorType := ctorVal.Type()

	// 登记时已校验数量，这里只需校验可赋值性
	for i, arg := range args {
		in := ctorType.In(i)
		if !arg.IsValid() {
			args[i] = reflect.Zero(in)
			continue
		}
		if !arg.Type().AssignableTo(in) {
			if arg.Type().ConvertibleTo(in) {
				args[i] = arg.Convert(in)
				continue
			}
			return nil, fmt.Errorf("%w: %s: argument %d is %v, want %v",
				ErrInstantiation, id, i, arg.Type(), in)
		}
	}

	results := ctorVal.Call(args)

	if len(results) > 1 {
		last := results[len(results)-1]
		if last.Type().Implements(errorType) && !last.IsNil() {
			return nil, last.Interface().(error)
		}
	}

	return results[0].Interface(), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
