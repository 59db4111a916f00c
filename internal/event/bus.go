package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

var _ Publisher = (*Bus)(nil)

// Bus fans events out to subscribers. Publish runs handlers in the caller's
// goroutine; PublishAsync gives each handler its own goroutine.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]subscription
	all    []subscription
	nextID uint64
	logger *zap.Logger
	now    func() time.Time
}

type subscription struct {
	id uint64
	fn Handler
}

// NewBus creates an empty Bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		topics: make(map[string][]subscription),
		logger: logger,
		now:    time.Now,
	}
}

func (b *Bus) targets(topic string) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]subscription, 0, len(b.topics[topic])+len(b.all))
	out = append(out, b.topics[topic]...)
	return append(out, b.all...)
}

func (b *Bus) stamp(e Event) Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = b.now().UTC()
	}
	return e
}

// Publish delivers e to topic subscribers, then to catch-all subscribers.
func (b *Bus) Publish(ctx context.Context, e Event) {
	e = b.stamp(e)
	for _, s := range b.targets(e.Topic) {
		b.safeCall(ctx, s.fn, e)
	}
}

// PublishAsync delivers e without waiting for handlers.
func (b *Bus) PublishAsync(ctx context.Context, e Event) {
	e = b.stamp(e)
	for _, s := range b.targets(e.Topic) {
		go b.safeCall(ctx, s.fn, e)
	}
}

// Subscribe registers fn for topic and returns its cancel function.
func (b *Bus) Subscribe(topic string, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.topics[topic] = append(b.topics[topic], subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.topics[topic] = without(b.topics[topic], id)
	}
}

// SubscribeAll registers fn for every topic.
func (b *Bus) SubscribeAll(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.all = append(b.all, subscription{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = without(b.all, id)
	}
}

func without(subs []subscription, id uint64) []subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}

func (b *Bus) safeCall(ctx context.Context, fn Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", e.Topic),
				zap.String("source", e.Source),
				zap.Any("panic", r),
			)
		}
	}()
	fn(ctx, e)
}
