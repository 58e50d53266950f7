package schedule

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Trigger calls into a single invocation of fn
// once delay has passed without a new trigger. It holds at most one pending
// call.
type Debouncer struct {
	sched Scheduler
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	gen     uint64
	cancel  CancelFunc
	pending bool
}

// NewDebouncer creates a Debouncer that runs fn on sched.
func NewDebouncer(sched Scheduler, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{sched: sched, delay: delay, fn: fn}
}

// Trigger cancels any pending call and schedules a new one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.cancel = d.sched.After(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending call, if any. Returns true if one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	was := d.pending
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
	d.pending = false
	return was
}

// Pending reports whether a call is scheduled and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A runtime timer can fire after Stop lost the race; the generation
	// check drops those stale calls.
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.cancel = nil
	d.mu.Unlock()

	d.fn()
}
