// Package pubsub is the in-process fan-out feeding GraphQL subscriptions.
package pubsub

import (
	"context"
	"sync"
)

// subscriber channels are buffered; a subscriber that falls this far behind
// starts losing events instead of blocking publishers.
const subscriberBuffer = 16

// Topic broadcasts values to any number of subscribers.
type Topic[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

func NewTopic[T any]() *Topic[T] {
	return &Topic[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a new subscriber. The returned channel is closed when
// ctx is done.
func (t *Topic[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, subscriberBuffer)

	t.mu.Lock()
	t.subs[ch] = struct{}{}
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		t.mu.Lock()
		delete(t.subs, ch)
		t.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish delivers v to every current subscriber without blocking.
func (t *Topic[T]) Publish(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for ch := range t.subs {
		select {
		case ch <- v:
		default: // subscriber is not keeping up, drop
		}
	}
}

// Len reports the current number of subscribers.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}
