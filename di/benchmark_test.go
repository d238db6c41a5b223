package di_test

import (
	"testing"

	"github.com/gocrud/ioc/di"
)

func newBenchContainer(b *testing.B) *di.Container {
	b.Helper()

	c := di.NewContainer()
	if err := c.RegisterType(&di.TypeDescriptor{
		Id:          "FileLogger",
		Constructor: NewFileLogger,
	}); err != nil {
		b.Fatal(err)
	}
	if err := c.RegisterType(&di.TypeDescriptor{
		Id:          "UserService",
		Constructor: NewUserService,
		Params:      []di.Param{{Name: "logger", Dependency: "FileLogger"}},
	}); err != nil {
		b.Fatal(err)
	}
	return c
}

func BenchmarkResolveSingletonCached(b *testing.B) {
	c := newBenchContainer(b)
	c.Singleton("logger", di.Factory(func(c *di.Container) (any, error) {
		return NewFileLogger(), nil
	}))
	if _, err := c.Resolve("logger"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Resolve("logger"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolveTransientFactory(b *testing.B) {
	c := newBenchContainer(b)
	c.Bind("logger", di.Factory(func(c *di.Container) (any, error) {
		return NewFileLogger(), nil
	}))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Resolve("logger"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolveAutoWired(b *testing.B) {
	c := newBenchContainer(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Resolve("UserService"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolveParallel(b *testing.B) {
	c := newBenchContainer(b)
	c.Singleton("logger", di.Factory(func(c *di.Container) (any, error) {
		return NewFileLogger(), nil
	}))

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.Resolve("logger"); err != nil {
				b.Fatal(err)
			}
		}
	})
}
