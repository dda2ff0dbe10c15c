package gate

import (
	"context"
	"sync"
)

// SessionSource is the part of the authentication provider the gate needs
type SessionSource interface {
	// Session returns the current state; it must not block on the session check
	Session(ctx context.Context) Session
	// Logout clears the session's user
	Logout(ctx context.Context) error
}

// Navigator is the router capability the gate needs
type Navigator interface {
	CurrentPath() string
	// Replace navigates to path without adding a history entry
	Replace(path string)
}

// Gate runs Decide against live collaborators and performs the navigation it asks for
type Gate struct {
	source SessionSource
	nav    Navigator
	paths  Paths

	mu      sync.Mutex
	pending string // from+target of the last redirect issued
}

func New(source SessionSource, nav Navigator, paths Paths) *Gate {
	return &Gate{
		source: source,
		nav:    nav,
		paths:  paths,
	}
}

// Evaluate decides for the current session and path. A redirect is issued at most
// once for the same origin and target until a different decision is made.
func (g *Gate) Evaluate(ctx context.Context) Action {
	current := g.nav.CurrentPath()
	action := Decide(g.source.Session(ctx), g.paths.Classify(current), g.paths)

	g.mu.Lock()
	if action.Kind != Redirect {
		g.pending = ""
		g.mu.Unlock()
		return action
	}
	key := current + "\x00" + action.Target
	if g.pending == key {
		g.mu.Unlock()
		return action
	}
	g.pending = key
	g.mu.Unlock()

	g.nav.Replace(action.Target)
	return action
}

// Logout clears the session and always sends the user to the login form,
// whatever the decision table would say. The provider's error is returned
// after navigation has been issued.
func (g *Gate) Logout(ctx context.Context) error {
	err := g.source.Logout(ctx)

	g.mu.Lock()
	g.pending = ""
	g.mu.Unlock()

	g.nav.Replace(g.paths.Auth)
	return err
}

// Paths returns the locations this gate was configured with
func (g *Gate) Paths() Paths {
	return g.paths
}
