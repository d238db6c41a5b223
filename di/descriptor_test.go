package di_test

import (
	"errors"
	"testing"

	"github.com/gocrud/ioc/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTypeValidation(t *testing.T) {
	c := di.NewContainer()

	tests := []struct {
		name string
		desc *di.TypeDescriptor
	}{
		{"missing id", &di.TypeDescriptor{Constructor: NewFileLogger}},
		{"missing constructor", &di.TypeDescriptor{Id: "X"}},
		{"constructor not a function", &di.TypeDescriptor{Id: "X", Constructor: 42}},
		{"no return value", &di.TypeDescriptor{Id: "X", Constructor: func() {}}},
		{
			"arity mismatch",
			&di.TypeDescriptor{Id: "X", Constructor: NewUserService},
		},
		{
			"non-primitive param without dependency",
			&di.TypeDescriptor{
				Id:          "X",
				Constructor: NewUserService,
				Params:      []di.Param{{Name: "logger"}},
			},
		},
		{
			"variadic constructor",
			&di.TypeDescriptor{
				Id:          "X",
				Constructor: func(xs ...string) *FileLogger { return nil },
				Params:      []di.Param{{Name: "xs", Primitive: true}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.RegisterType(tt.desc)
			require.Error(t, err)
			assert.ErrorIs(t, err, di.ErrInvalidDescriptor)
		})
	}
}

func TestConstructorErrorReturn(t *testing.T) {
	c := di.NewContainer()
	boom := errors.New("ctor failed")
	require.NoError(t, c.RegisterType(&di.TypeDescriptor{
		Id:          "Flaky",
		Constructor: func() (*FileLogger, error) { return nil, boom },
	}))

	_, err := c.Resolve("Flaky")
	assert.ErrorIs(t, err, boom)
}

func TestInstantiationErrorOnIncompatibleDefault(t *testing.T) {
	c := di.NewContainer()
	require.NoError(t, c.RegisterType(&di.TypeDescriptor{
		Id:          "Report",
		Constructor: NewReportService,
		Params: []di.Param{
			{Name: "logger", Dependency: "FileLogger"},
			{Name: "format", Primitive: true, Default: struct{ X int }{1}},
		},
	}))
	require.NoError(t, c.RegisterType(&di.TypeDescriptor{
		Id:          "FileLogger",
		Constructor: NewFileLogger,
	}))

	_, err := c.Resolve("Report")
	require.Error(t, err)
	assert.ErrorIs(t, err, di.ErrInstantiation)
}

func TestConvertibleDefaultIsConverted(t *testing.T) {
	c := di.NewContainer()
	require.NoError(t, c.RegisterType(&di.TypeDescriptor{
		Id:          "Sized",
		Constructor: func(size int64) int64 { return size },
		Params: []di.Param{
			// int 默认值赋给 int64 参数，走类型转换
			{Name: "size", Primitive: true, Default: 32},
		},
	}))

	got, err := c.Resolve("Sized")
	require.NoError(t, err)
	assert.EqualValues(t, 32, got)
}

func TestDescriptorReRegistrationOverwrites(t *testing.T) {
	c := di.NewContainer()
	require.NoError(t, c.RegisterType(&di.TypeDescriptor{
		Id:          "Greeting",
		Constructor: func() string { return "v1" },
	}))
	require.NoError(t, c.RegisterType(&di.TypeDescriptor{
		Id:          "Greeting",
		Constructor: func() string { return "v2" },
	}))

	got, err := c.Resolve("Greeting")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
}

// staticSource 固定内容的外部描述符提供者
type staticSource map[di.AbstractId]*di.TypeDescriptor

func (s staticSource) Describe(id di.AbstractId) (*di.TypeDescriptor, bool) {
	desc, ok := s[id]
	return desc, ok
}

func TestExternalDescriptorSourceFallback(t *testing.T) {
	c := di.NewContainer()
	c.AddDescriptorSource(staticSource{
		"External": {
			Id:          "External",
			Constructor: NewFileLogger,
		},
	})

	_, err := c.Resolve("External")
	require.NoError(t, err)

	// 内置登记表优先于外部提供者
	require.NoError(t, c.RegisterType(&di.TypeDescriptor{
		Id:          "External",
		Constructor: func() string { return "local" },
	}))
	got, err := c.Resolve("External")
	require.NoError(t, err)
	assert.Equal(t, "local", got)
}
