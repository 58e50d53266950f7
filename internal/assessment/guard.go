package assessment

import "sync"

// ExitGuard is the host capability that asks for confirmation before the
// learner leaves a running test.
type ExitGuard interface {
	Arm()
	Disarm()
}

// NopGuard is an ExitGuard that does nothing.
type NopGuard struct{}

func (NopGuard) Arm()    {}
func (NopGuard) Disarm() {}

// onceGuard forwards at most one Arm and one Disarm to the wrapped guard,
// and only disarms what it armed.
type onceGuard struct {
	inner    ExitGuard
	mu       sync.Mutex
	armed    bool
	released bool
}

func newOnceGuard(g ExitGuard) *onceGuard {
	if g == nil {
		g = NopGuard{}
	}
	return &onceGuard{inner: g}
}

func (g *onceGuard) Arm() {
	g.mu.Lock()
	if g.armed || g.released {
		g.mu.Unlock()
		return
	}
	g.armed = true
	g.mu.Unlock()
	g.inner.Arm()
}

func (g *onceGuard) Disarm() {
	g.mu.Lock()
	if !g.armed || g.released {
		g.released = true
		g.mu.Unlock()
		return
	}
	g.released = true
	g.mu.Unlock()
	g.inner.Disarm()
}
