package async

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"prlifecycle/internal/domain"
)

// Handler reacts to a published event. It runs on a pool worker.
type Handler func(ctx context.Context, e domain.Event)

type AsyncEventBus struct {
	pool *WorkerPool
	log  *zap.Logger

	mu       sync.RWMutex
	handlers []Handler
}

func NewAsyncEventBus(ctx context.Context, poolSize int, log *zap.Logger) *AsyncEventBus {
	return &AsyncEventBus{
		pool: NewWorkerPool(ctx, poolSize, log),
		log:  log,
	}
}

func (b *AsyncEventBus) Subscribe(h Handler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

func (b *AsyncEventBus) Publish(ctx context.Context, e domain.Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	b.pool.Submit(func(ctx context.Context) {
		b.log.Info("domain_event",
			zap.String("type", e.Type),
			zap.String("stream_id", e.StreamID),
			zap.Uint64("revision", e.Revision),
			zap.Any("payload", e.Payload),
		)
		for _, h := range handlers {
			h(ctx, e)
		}
	})
}

func (b *AsyncEventBus) Close() {
	b.pool.Shutdown()
}
