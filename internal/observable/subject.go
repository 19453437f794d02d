// Package observable is a small publish/subscribe layer for view state.
//
// A Subject holds the latest value and replays it to every new subscriber.
// Subscriber channels hold at most one pending value: a slow reader skips
// intermediate states and always ends up on the latest one.
package observable

import "sync"

// Source is anything that can be subscribed to. The returned cancel func
// closes the channel and is safe to call more than once.
type Source[T any] interface {
	Subscribe() (<-chan T, func())
}

// Subject is a hot, conflating value holder.
type Subject[T any] struct {
	mu    sync.Mutex
	value T
	has   bool
	subs  map[uint64]chan T
	next  uint64
}

// NewSubject returns an empty subject; subscribers get nothing until the
// first Publish.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[uint64]chan T)}
}

// NewSubjectWith returns a subject that already holds v.
func NewSubjectWith[T any](v T) *Subject[T] {
	s := NewSubject[T]()
	s.value, s.has = v, true
	return s
}

// Publish stores v and delivers it to every subscriber.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value, s.has = v, true
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Update applies fn to the current value under the lock and publishes the
// result.
func (s *Subject[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value, s.has = fn(s.value), true
	for _, ch := range s.subs {
		offer(ch, s.value)
	}
}

// Value returns the latest value and whether one was ever published.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.has
}

// Reset forgets the latest value without notifying anyone.
func (s *Subject[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value, s.has = zero, false
}

// Subscribe registers a subscriber; the latest value, if any, is queued
// immediately.
func (s *Subject[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, 1)
	if s.has {
		ch <- s.value
	}
	id := s.next
	s.next++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Subscribers reports how many subscribers are attached.
func (s *Subject[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// offer replaces whatever is buffered in ch with v. Callers hold the
// subject lock, so nobody else sends on ch concurrently.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
