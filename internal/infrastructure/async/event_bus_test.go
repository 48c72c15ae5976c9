package async_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"prlifecycle/internal/domain"
	"prlifecycle/internal/infrastructure/async"
)

func TestAsyncEventBusDeliversToSubscribers(t *testing.T) {
	bus := async.NewAsyncEventBus(context.Background(), 2, zap.NewNop())
	defer bus.Close()

	got := make(chan domain.Event, 4)
	bus.Subscribe(func(_ context.Context, e domain.Event) { got <- e })

	bus.Publish(context.Background(), domain.Event{Type: "pr.created", StreamID: "pr-1", Revision: 0})

	select {
	case e := <-got:
		assert.Equal(t, "pr.created", e.Type)
		assert.Equal(t, "pr-1", e.StreamID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestAsyncEventBusSurvivesPanickingHandler(t *testing.T) {
	bus := async.NewAsyncEventBus(context.Background(), 1, zap.NewNop())
	defer bus.Close()

	got := make(chan string, 4)
	bus.Subscribe(func(_ context.Context, e domain.Event) {
		if e.Type == "boom" {
			panic("handler failed")
		}
		got <- e.Type
	})

	bus.Publish(context.Background(), domain.Event{Type: "boom"})
	bus.Publish(context.Background(), domain.Event{Type: "pr.abandoned"})

	select {
	case typ := <-got:
		assert.Equal(t, "pr.abandoned", typ)
	case <-time.After(time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestWorkerPoolShutdownIsIdempotent(t *testing.T) {
	pool := async.NewWorkerPool(context.Background(), 2, zap.NewNop())

	done := make(chan struct{})
	pool.Submit(func(context.Context) { close(done) })
	<-done

	pool.Shutdown()
	pool.Shutdown()

	// submitting after shutdown returns instead of blocking
	pool.Submit(func(context.Context) {})
}
