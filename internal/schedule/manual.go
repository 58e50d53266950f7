package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a virtual-time Scheduler. Nothing fires until Advance is called,
// and callbacks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	id        uint64
	due       time.Time
	interval  time.Duration
	fn        func()
	cancelled bool
}

var _ Scheduler = (*Manual)(nil)

// NewManual creates a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(interval time.Duration, fn func()) CancelFunc {
	return m.add(interval, interval, fn)
}

func (m *Manual) After(delay time.Duration, fn func()) CancelFunc {
	return m.add(delay, 0, fn)
}

func (m *Manual) add(delay, interval time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{
		id:       m.seq,
		due:      m.now.Add(delay),
		interval: interval,
		fn:       fn,
	}
	m.tasks = append(m.tasks, t)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		t.cancelled = true
	}
}

// Pending returns the number of live (uncancelled) tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every task that falls due
// in order of due time. Tasks scheduled by callbacks during the advance
// fire too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.interval > 0 {
			next.due = next.due.Add(next.interval)
		} else {
			next.cancelled = true
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDueLocked returns the earliest live task due at or before target and
// compacts cancelled tasks out of the list.
func (m *Manual) nextDueLocked(target time.Time) *manualTask {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.tasks = live

	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].id < m.tasks[j].id
		}
		return m.tasks[i].due.Before(m.tasks[j].due)
	})

	if len(m.tasks) == 0 || m.tasks[0].due.After(target) {
		return nil
	}
	return m.tasks[0]
}
