package schedule

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled task. Calling it more than once is safe.
type CancelFunc func()

// Scheduler runs callbacks after a delay or on a fixed interval.
// Callbacks may run on a different goroutine than the caller.
type Scheduler interface {
	// Every runs fn once per interval until cancelled.
	Every(interval time.Duration, fn func()) CancelFunc

	// After runs fn once after delay unless cancelled first.
	After(delay time.Duration, fn func()) CancelFunc
}

// Real is a Scheduler backed by the runtime timers.
type Real struct{}

var _ Scheduler = Real{}

func (Real) Every(interval time.Duration, fn func()) CancelFunc {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}

func (Real) After(delay time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
