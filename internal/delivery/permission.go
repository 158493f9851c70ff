package delivery

import "sync"

// Permission reports whether local alerts may currently be shown.
type Permission interface {
	Granted() bool
}

// PermissionGate is a grantable, revocable alert capability. Request follows
// a request-once pattern: the first call settles the initial answer, later
// calls only report the live state.
type PermissionGate struct {
	mu        sync.RWMutex
	requested bool
	granted   bool
	initial   bool
}

// NewPermissionGate creates a gate whose first Request resolves to initial.
func NewPermissionGate(initial bool) *PermissionGate {
	return &PermissionGate{initial: initial}
}

// Request asks for the capability once and returns the current state.
func (g *PermissionGate) Request() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.requested {
		g.requested = true
		g.granted = g.initial
	}
	return g.granted
}

// Grant enables local alerts.
func (g *PermissionGate) Grant() {
	g.mu.Lock()
	g.requested = true
	g.granted = true
	g.mu.Unlock()
}

// Revoke disables local alerts. Already armed triggers stay armed but will
// not surface an alert while revoked.
func (g *PermissionGate) Revoke() {
	g.mu.Lock()
	g.requested = true
	g.granted = false
	g.mu.Unlock()
}

// Granted reports the live state.
func (g *PermissionGate) Granted() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.granted
}
