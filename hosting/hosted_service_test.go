package hosting

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/ioc/logging"
)

func newTestLogger() logging.Logger {
	return logging.NewLoggingBuilder().
		UseWriter(&bytes.Buffer{}).
		Build().
		CreateLogger("test")
}

type fakeService struct {
	startErr error
	stopped  atomic.Bool
}

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestManagerStartAllReportsFailure(t *testing.T) {
	manager := NewHostedServiceManager(newTestLogger())
	boom := errors.New("boom")
	manager.Add(&fakeService{startErr: boom})

	errCh := manager.StartAll(context.Background())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("expected start error")
	}
	manager.Wait()
}

func TestManagerContextCancelIsNotFailure(t *testing.T) {
	manager := NewHostedServiceManager(newTestLogger())
	manager.Add(&fakeService{startErr: context.Canceled})

	errCh := manager.StartAll(context.Background())
	manager.Wait()

	select {
	case err := <-errCh:
		t.Fatalf("cancellation should not be reported as failure, got %v", err)
	default:
	}
}

func TestManagerStopAllStopsEveryService(t *testing.T) {
	manager := NewHostedServiceManager(newTestLogger())
	first := &fakeService{}
	second := &fakeService{}
	manager.Add(first)
	manager.Add(second)

	ctx, cancel := context.WithCancel(context.Background())
	_ = manager.StartAll(ctx)
	cancel()
	manager.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, manager.StopAll(stopCtx))

	assert.True(t, first.stopped.Load())
	assert.True(t, second.stopped.Load())
}
