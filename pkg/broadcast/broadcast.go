package broadcast

import (
	"context"
	"sync"
)

// Subscriber receives messages from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the channel delivering broadcast messages.
	// The channel is closed when the subscriber or the broadcaster closes.
	Receive() <-chan T

	// Close unsubscribes and closes the receive channel. Idempotent.
	Close() error
}

// Broadcaster fans messages out to all current subscribers.
type Broadcaster[T any] interface {
	Subscribe(ctx context.Context) Subscriber[T]
	Broadcast(msg T)
	Close() error
}

type subscriber[T any] struct {
	ch     chan T
	owner  *MemoryBroadcaster[T]
	closed bool
	mu     sync.Mutex
}

func (s *subscriber[T]) Receive() <-chan T { return s.ch }

func (s *subscriber[T]) Close() error {
	if s.owner != nil {
		s.owner.unsubscribe(s)
	}
	s.closeChan()
	return nil
}

func (s *subscriber[T]) closeChan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

// send attempts a non-blocking delivery; false means the message was dropped.
func (s *subscriber[T]) send(msg T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// MemoryBroadcaster is an in-process Broadcaster. All methods are safe for
// concurrent use.
type MemoryBroadcaster[T any] struct {
	subscribers map[*subscriber[T]]struct{}
	bufferSize  int
	closed      bool
	mu          sync.Mutex
}

// NewMemoryBroadcaster creates a broadcaster whose subscribers buffer up to
// bufferSize messages. A minimum of 1 is enforced so sends never block.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe registers a new subscriber. The subscription is torn down when
// the context is cancelled or Close is called on either side.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber[T]{ch: make(chan T, b.bufferSize), owner: b}
	if b.closed {
		sub.closeChan()
		return sub
	}
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			_ = sub.Close()
		}()
	}

	return sub
}

// Broadcast delivers msg to every subscriber, dropping it for any whose
// buffer is full.
func (b *MemoryBroadcaster[T]) Broadcast(msg T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for sub := range b.subscribers {
		sub.send(msg)
	}
}

// Close shuts down the broadcaster and closes all subscribers. Idempotent.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	for sub := range b.subscribers {
		sub.closeChan()
	}
	clear(b.subscribers)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, sub)
}
