package app

import "sync/atomic"

// Guard is the exit guard of the terminal host. While armed, Ctrl+C asks
// for confirmation before leaving.
type Guard struct {
	armed atomic.Bool
}

// NewGuard creates a disarmed guard.
func NewGuard() *Guard {
	return &Guard{}
}

func (g *Guard) Arm()    { g.armed.Store(true) }
func (g *Guard) Disarm() { g.armed.Store(false) }

// Armed reports whether leaving needs confirmation.
func (g *Guard) Armed() bool {
	return g != nil && g.armed.Load()
}
