package web

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

func newTestLogger() logging.Logger {
	factory := logging.NewLoggingBuilder().
		UseWriter(&bytes.Buffer{}).
		Build()
	return factory.CreateLogger("test")
}

// ---------------- Mock Controllers ----------------

type greetService struct {
	Message string
}

type greetController struct {
	svc *greetService
}

func (c *greetController) RegisterRoutes(router gin.IRouter) {
	router.GET("/greet", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, c.svc.Message)
	})
}

// ---------------- Tests ----------------

func TestBuilderRoutes(t *testing.T) {
	builder := NewBuilder(newTestLogger())
	builder.Get("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	builder.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestHostResolvesControllersFromContainer(t *testing.T) {
	container := di.NewContainer()
	container.Instance(di.Id[*greetService](), &greetService{Message: "hello"})
	container.Singleton(di.Id[*greetController](), di.Factory(func(c *di.Container) (any, error) {
		svc, err := di.Resolve[*greetService](c)
		if err != nil {
			return nil, err
		}
		return &greetController{svc: svc}, nil
	}))

	builder := NewBuilder(newTestLogger())
	builder.AddController(di.Id[*greetController]())
	host := builder.Build(container)

	require.NoError(t, host.mapControllers())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/greet", nil)
	host.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestHostFailsOnUnresolvableController(t *testing.T) {
	builder := NewBuilder(newTestLogger())
	builder.AddController(di.Id[*greetController]())
	host := builder.Build(di.NewContainer())

	err := host.mapControllers()
	require.Error(t, err)
	assert.ErrorIs(t, err, di.ErrUnresolvable)
}

func TestHostStartStop(t *testing.T) {
	builder := NewBuilder(newTestLogger())
	builder.UsePort(0) // 随机端口
	host := builder.Build(di.NewContainer())
	host.server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- host.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	assert.NoError(t, host.Stop(stopCtx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("host did not shut down in time")
	}
}
