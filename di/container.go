package di

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// AbstractId 抽象标识：一次解析请求的键，通常是类型名或接口名
// 相等性就是字符串精确匹配。
type AbstractId = string

// Factory 工厂函数
// 工厂完全负责自己的构造逻辑，需要依赖时可以回调容器的 Resolve。
// 工厂返回的 error 原样透传给 Resolve 的调用者。
type Factory func(c *Container) (any, error)

// binding 一条注册记录
// concrete 与 factory 二选一：concrete 指向另一个抽象标识（递归解析），
// factory 直接生产实例。
type binding struct {
	concrete AbstractId
	factory  Factory
}

// singletonBinding 单例注册记录
// once 保证并发首次解析时构建逻辑至多执行一次，所有调用者看到同一实例。
type singletonBinding struct {
	binding
	once sync.Once
	inst any
	err  error
}

// Container 解析容器
//
// 持有三张按抽象标识索引的表：瞬态绑定、单例绑定、已实现的单例实例缓存。
// 查找优先级固定：实例缓存 → 单例绑定（构建一次并缓存）→ 瞬态绑定（每次
// 构建）→ 描述符自动装配。每次解析恰好走其中一条路径。
//
// 锁只保护表和缓存的读写，不覆盖工厂执行和递归解析，
// 因此工厂内部回调容器不会死锁。
type Container struct {
	mu         sync.Mutex
	transients map[AbstractId]*binding
	singletons map[AbstractId]*singletonBinding
	instances  map[AbstractId]any

	registry *DescriptorRegistry
	sources  []DescriptorSource
}

// NewContainer 创建空容器
// 所有状态都挂在容器实例上，没有任何包级全局注册表。
func NewContainer() *Container {
	return &Container{
		transients: make(map[AbstractId]*binding),
		singletons: make(map[AbstractId]*singletonBinding),
		instances:  make(map[AbstractId]any),
		registry:   NewDescriptorRegistry(),
	}
}

// Bind 注册瞬态绑定
// concrete 可以是另一个抽象标识（string），也可以是 Factory。
// 覆盖同标识的已有瞬态绑定。绑定时不校验 concrete 是否可解析，推迟到解析时。
func (c *Container) Bind(id AbstractId, concrete any) {
	b := toBinding(id, concrete)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transients[id] = b
}

// Singleton 注册单例绑定
// 与 Bind 类似，但首次构建的结果会被缓存，之后一直复用。
//
// 注意：如果该标识已经有缓存的实例，重新注册绑定不会清除缓存——
// 缓存优先级高于绑定表，新绑定只影响缓存从未被填充过的情况。
func (c *Container) Singleton(id AbstractId, concrete any) {
	b := toBinding(id, concrete)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[id] = &singletonBinding{binding: *b}
}

// Instance 直接登记一个已构建的值作为单例实例
// 等价于单例绑定且立刻命中缓存；覆盖同标识的已有缓存。
func (c *Container) Instance(id AbstractId, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[id] = value
}

// RegisterType 登记类型描述符，供自动装配使用
func (c *Container) RegisterType(desc *TypeDescriptor) error {
	return c.registry.Register(desc)
}

// AddDescriptorSource 追加一个外部描述符提供者
// 查询顺序：内置登记表优先，然后按追加顺序查询外部提供者。
func (c *Container) AddDescriptorSource(source DescriptorSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, source)
}

// Bound 报告某个抽象标识是否有绑定或缓存实例
func (c *Container) Bound(id AbstractId) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.instances[id]; ok {
		return true
	}
	if _, ok := c.singletons[id]; ok {
		return true
	}
	_, ok := c.transients[id]
	return ok
}

// Resolve 将抽象标识解析为具体实例
//
// 解析是对描述符和绑定隐含的依赖图做深度优先遍历，终止于基本类型参数或
// 无参构造函数。同一调用栈上重复进入同一标识立即返回 ErrCyclicDependency。
func (c *Container) Resolve(id AbstractId) (any, error) {
	return c.resolve(id, newResolveStack())
}

// MustResolve 与 Resolve 相同，失败时 panic
// 仅建议在程序启动阶段使用。
func (c *Container) MustResolve(id AbstractId) any {
	inst, err := c.Resolve(id)
	if err != nil {
		panic(fmt.Sprintf("di: resolve %s: %v", id, err))
	}
	return inst
}

func (c *Container) resolve(id AbstractId, stack *resolveStack) (any, error) {
	if err := stack.enter(id); err != nil {
		return nil, err
	}
	defer stack.leave(id)

	// 1. 已实现的单例实例
	c.mu.Lock()
	if inst, ok := c.instances[id]; ok {
		c.mu.Unlock()
		return inst, nil
	}
	sb := c.singletons[id]
	tb := c.transients[id]
	c.mu.Unlock()

	// 2. 单例绑定：构建一次并缓存
	if sb != nil {
		sb.once.Do(func() {
			sb.inst, sb.err = c.build(&sb.binding, stack)
		})
		if sb.err != nil {
			return nil, sb.err
		}

		c.mu.Lock()
		// Instance 可能在构建期间抢先写入了缓存，以缓存为准
		if cached, ok := c.instances[id]; ok {
			c.mu.Unlock()
			return cached, nil
		}
		c.instances[id] = sb.inst
		c.mu.Unlock()
		return sb.inst, nil
	}

	// 3. 瞬态绑定：每次调用都构建，不缓存
	if tb != nil {
		return c.build(tb, stack)
	}

	// 4. 自动装配
	return c.autoResolve(id, stack)
}

// build 执行一条绑定
// 工厂绑定：以容器为唯一参数调用工厂，结果原样返回；
// 类型引用绑定：递归解析目标标识。
func (c *Container) build(b *binding, stack *resolveStack) (any, error) {
	if b.factory != nil {
		return b.factory(c)
	}
	return c.resolve(b.concrete, stack)
}

// autoResolve 按类型描述符自动装配
func (c *Container) autoResolve(id AbstractId, stack *resolveStack) (any, error) {
	desc, ok := c.describe(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvable, id)
	}

	args := make([]reflect.Value, len(desc.Params))
	ctorType := reflect.TypeOf(desc.Constructor)

	for i, p := range desc.Params {
		in := ctorType.In(i)

		if p.Primitive {
			// 基本类型参数：有默认值用默认值，否则用声明类型的零值
			if p.Default != nil {
				args[i] = reflect.ValueOf(p.Default)
			} else {
				args[i] = reflect.Zero(in)
			}
			continue
		}

		dep, err := c.resolve(p.Dependency, stack)
		if err != nil {
			return nil, fmt.Errorf("di: %s: param %d (%s): %w", id, i, p.Name, err)
		}
		if dep == nil {
			args[i] = reflect.Zero(in)
		} else {
			args[i] = reflect.ValueOf(dep)
		}
	}

	return invokeConstructor(id, desc.Constructor, args)
}

// describe 查询描述符：内置登记表优先，然后是外部提供者
func (c *Container) describe(id AbstractId) (*TypeDescriptor, bool) {
	if desc, ok := c.registry.Describe(id); ok {
		return desc, true
	}

	c.mu.Lock()
	sources := c.sources
	c.mu.Unlock()

	for _, source := range sources {
		if desc, ok := source.Describe(id); ok {
			return desc, true
		}
	}
	return nil, false
}

// toBinding 归一化注册参数
// 不支持的 concrete 类型属于编程错误，直接 panic。
func toBinding(id AbstractId, concrete any) *binding {
	switch v := concrete.(type) {
	case AbstractId:
		return &binding{concrete: v}
	case Factory:
		return &binding{factory: v}
	case func(c *Container) (any, error):
		return &binding{factory: v}
	default:
		panic(fmt.Sprintf("di: binding for %s must be an AbstractId or Factory, got %T", id, concrete))
	}
}

// resolveStack 当前调用栈上正在解析的标识集合
// 只在单次 Resolve 调用内传递，不跨工厂边界（工厂回调 Resolve 时另起新栈，
// 工厂自身负责不构造环）。
type resolveStack struct {
	active map[AbstractId]struct{}
	path   []AbstractId
}

func newResolveStack() *resolveStack {
	return &resolveStack{active: make(map[AbstractId]struct{})}
}

func (s *resolveStack) enter(id AbstractId) error {
	if _, ok := s.active[id]; ok {
		return fmt.Errorf("%w: %s", ErrCyclicDependency,
			strings.Join(append(s.path, id), " -> "))
	}
	s.active[id] = struct{}{}
	s.path = append(s.path, id)
	return nil
}

func (s *resolveStack) leave(id AbstractId) {
	delete(s.active, id)
	s.path = s.path[:len(s.path)-1]
}
