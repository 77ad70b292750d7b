// Package observable holds a broadcast cell: the latest value plus an ordered
// stream of every later value for each subscriber.
package observable

import (
	"context"
	"sync"
)

type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[*subscriber[T]]struct{}
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[*subscriber[T]]struct{}),
	}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set commits val and queues it for every active subscriber.
// Subscribers never miss or reorder values, a slow reader only grows its own queue.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = val
	for s := range v.subs {
		s.push(val)
	}
}

// Subscribe emits the current value first, then each Set in commit order.
// The channel is closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	out := make(chan T)
	s := &subscriber[T]{wake: make(chan struct{}, 1)}

	v.mu.Lock()
	s.push(v.current)
	v.subs[s] = struct{}{}
	v.mu.Unlock()

	go v.pump(ctx, s, out)
	return out
}

func (v *Value[T]) subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

func (v *Value[T]) unsubscribe(s *subscriber[T]) {
	v.mu.Lock()
	delete(v.subs, s)
	v.mu.Unlock()
}

func (v *Value[T]) pump(ctx context.Context, s *subscriber[T], out chan<- T) {
	defer close(out)
	defer v.unsubscribe(s)

	for {
		val, ok := s.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		case out <- val:
		}
	}
}

type subscriber[T any] struct {
	mu    sync.Mutex
	queue []T
	wake  chan struct{}
}

func (s *subscriber[T]) push(val T) {
	s.mu.Lock()
	s.queue = append(s.queue, val)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) pop() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if len(s.queue) == 0 {
		return zero, false
	}
	val := s.queue[0]
	s.queue[0] = zero
	s.queue = s.queue[1:]
	return val, true
}
