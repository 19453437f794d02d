package observable

import "sync"

type combined[A, B, R any] struct {
	a Source[A]
	b Source[B]
	f func(A, B) R
}

// Combine derives a source that emits f(a, b) each time either input
// emits, once both have produced a value. Every subscription runs its own
// pipeline; wrap the result in Share to run one pipeline for many readers.
func Combine[A, B, R any](a Source[A], b Source[B], f func(A, B) R) Source[R] {
	return &combined[A, B, R]{a: a, b: b, f: f}
}

// Subscribe starts a pipeline owning one subscription to each input.
// Cancel stops it and releases both inputs.
func (c *combined[A, B, R]) Subscribe() (<-chan R, func()) {
	out := NewSubject[R]()
	ch, cancelOut := out.Subscribe()
	ca, cancelA := c.a.Subscribe()
	cb, cancelB := c.b.Subscribe()
	done := make(chan struct{})

	go func() {
		var (
			av         A
			bv         B
			hasA, hasB bool
		)
		for {
			select {
			case <-done:
				return
			case v, ok := <-ca:
				// A closed input ends the pipeline.
				if !ok {
					return
				}
				av, hasA = v, true
			case v, ok := <-cb:
				if !ok {
					return
				}
				bv, hasB = v, true
			}
			// Nothing is emitted until both sides have a value.
			if hasA && hasB {
				out.Publish(c.f(av, bv))
			}
		}
	}()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			close(done)
			cancelA()
			cancelB()
			cancelOut()
		})
	}
}

type mapped[T, R any] struct {
	src Source[T]
	f   func(T) R
}

// Map derives a source emitting f(v) for every upstream value.
func Map[T, R any](src Source[T], f func(T) R) Source[R] {
	return &mapped[T, R]{src: src, f: f}
}

// Subscribe starts a pipeline reading from one upstream subscription.
func (m *mapped[T, R]) Subscribe() (<-chan R, func()) {
	out := NewSubject[R]()
	ch, cancelOut := out.Subscribe()
	in, cancelIn := m.src.Subscribe()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				out.Publish(m.f(v))
			}
		}
	}()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			close(done)
			cancelIn()
			cancelOut()
		})
	}
}
