package viewstate

import (
	"sync"

	"github.com/dmitrijs2005/dailyquote/internal/observable"
)

// follow calls fn with every value of src until the returned stop func is
// called.
func follow[T any](src observable.Source[T], fn func(T)) func() {
	ch, cancel := src.Subscribe()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				fn(v)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			cancel()
		})
	}
}
