package observable

import (
	"sync"
	"time"
)

// Shared runs a single upstream subscription for any number of readers.
// The upstream starts with the first reader. When the last reader leaves
// it keeps running for the grace period, so a reader that comes right back
// finds it warm; after that it is torn down and the cached value dropped.
type Shared[T any] struct {
	src   Source[T]
	grace time.Duration

	mu      sync.Mutex
	subject *Subject[T]
	refs    int
	running bool
	stop    func()
	timer   *time.Timer
	epoch   uint64
}

// Share wraps src. A zero grace tears the upstream down as soon as the
// last reader leaves.
func Share[T any](src Source[T], grace time.Duration) *Shared[T] {
	return &Shared[T]{src: src, grace: grace, subject: NewSubject[T]()}
}

// Subscribe attaches a reader, starting the upstream if needed.
func (s *Shared[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	s.refs++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.epoch++
	if !s.running {
		s.start()
	}
	ch, cancel := s.subject.Subscribe()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			cancel()
			s.release()
		})
	}
}

// Active reports whether the upstream subscription is live.
func (s *Shared[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// start must be called with s.mu held.
func (s *Shared[T]) start() {
	in, cancel := s.src.Subscribe()
	done := make(chan struct{})
	subject := s.subject

	go func() {
		for {
			select {
			case <-done:
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				subject.Publish(v)
			}
		}
	}()

	var once sync.Once
	s.stop = func() {
		once.Do(func() {
			close(done)
			cancel()
		})
	}
	s.running = true
}

func (s *Shared[T]) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs--
	if s.refs > 0 {
		return
	}
	if s.grace <= 0 {
		s.teardown()
		return
	}
	epoch := s.epoch
	s.timer = time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.refs == 0 && s.epoch == epoch {
			s.teardown()
		}
	})
}

// teardown must be called with s.mu held.
func (s *Shared[T]) teardown() {
	if !s.running {
		return
	}
	s.stop()
	s.stop = nil
	s.running = false
	s.timer = nil
	// Readers arriving later must not see a value from the old pipeline.
	s.subject = NewSubject[T]()
}
