// Package pubsub provides a generic publish/subscribe broker used to fan out
// session events to display layers.
package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 32

// Event wraps a published payload.
type Event[T any] struct {
	Payload   T
	Timestamp time.Time
}

// Broker fans published payloads out to every subscriber.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]struct{}
	closed     bool
	bufferSize int
}

// NewBroker creates a broker with the default buffer size.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker whose subscriber channels hold size events.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	if size <= 0 {
		size = 1
	}
	return &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		bufferSize: size,
	}
}

// Subscribe returns a channel of events. The channel is closed when ctx is
// cancelled or the broker is closed.
func (broker *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	broker.mu.Lock()
	defer broker.mu.Unlock()

	sub := make(chan Event[T], broker.bufferSize)
	if broker.closed {
		close(sub)
		return sub
	}
	broker.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		broker.mu.Lock()
		defer broker.mu.Unlock()
		if _, ok := broker.subs[sub]; !ok {
			return
		}
		delete(broker.subs, sub)
		close(sub)
	}()

	return sub
}

// Publish delivers payload to every subscriber without blocking. Slow
// subscribers miss events once their buffer is full.
func (broker *Broker[T]) Publish(payload T) {
	broker.mu.RLock()
	defer broker.mu.RUnlock()
	if broker.closed {
		return
	}

	event := Event[T]{Payload: payload, Timestamp: time.Now()}
	for sub := range broker.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close closes every subscriber channel. Later subscriptions get a closed channel.
func (broker *Broker[T]) Close() {
	broker.mu.Lock()
	defer broker.mu.Unlock()
	if broker.closed {
		return
	}
	broker.closed = true
	for sub := range broker.subs {
		close(sub)
	}
	broker.subs = make(map[chan Event[T]]struct{})
}

// SubscriberCount returns the number of live subscriptions.
func (broker *Broker[T]) SubscriberCount() int {
	broker.mu.RLock()
	defer broker.mu.RUnlock()
	return len(broker.subs)
}
