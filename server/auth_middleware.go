package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/bloghub-admin/gate"
	"github.com/jrsteele09/bloghub-admin/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the admin let through by the gate
	ContextKeyUser ContextKey = "user"
	// ContextKeySessionID stores the session id from the cookie
	ContextKeySessionID ContextKey = "session_id"
	// ContextKeyGateState stores the state the gate let the request through in
	ContextKeyGateState ContextKey = "gate_state"
)

// httpNavigator performs the gate's replace-style navigation as an HTTP redirect
type httpNavigator struct {
	w         http.ResponseWriter
	r         *http.Request
	navigated bool
	before    func() // runs before the redirect is written
}

func (n *httpNavigator) CurrentPath() string {
	return n.r.URL.Path
}

func (n *httpNavigator) Replace(path string) {
	if n.navigated {
		return
	}
	if n.before != nil {
		n.before()
	}
	n.navigated = true
	redirectSuccess(n.w, n.r, path)
}

// observedSource remembers the last session the gate saw so the handler
// renders with the same user the decision was made for
type observedSource struct {
	gate.SessionSource
	last gate.Session
}

func (o *observedSource) Session(ctx context.Context) gate.Session {
	o.last = o.SessionSource.Session(ctx)
	return o.last
}

// SessionGate is middleware for admin console pages. It evaluates the gate for
// the cookie's session and either shows the loading page, redirects, or lets
// the request through with the user in the context.
func (s *Server) SessionGate() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFromRequest(r)
			source := &observedSource{SessionSource: s.provider.Source(sessionID)}
			nav := &httpNavigator{w: w, r: r}
			nav.before = func() {
				// A cookie for a session that no longer exists is dropped on the way out
				if sessionID != "" && source.last.User == nil && !source.last.Loading {
					s.ClearSessionCookie(w, r)
				}
			}

			action := gate.New(source, nav, s.paths).Evaluate(r.Context())
			log.Debug().
				Str("path", r.URL.Path).
				Str("route", action.Route.String()).
				Str("state", action.State().String()).
				Str("target", action.Target).
				Msg("session gate")

			switch action.Kind {
			case gate.Wait:
				s.renderLoading(w, r)
				return
			case gate.Redirect:
				if !nav.navigated {
					nav.Replace(action.Target)
				}
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
			ctx = context.WithValue(ctx, ContextKeyGateState, action.State())
			if source.last.User != nil {
				ctx = context.WithValue(ctx, ContextKeyUser, source.last.User)
			}
			next(w, r.WithContext(ctx))
		}
	}
}

func userFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(ContextKeyUser).(*users.User)
	return user
}

// gateStateFromContext is Checking for requests that never passed the gate
func gateStateFromContext(ctx context.Context) gate.State {
	state, ok := ctx.Value(ContextKeyGateState).(gate.State)
	if !ok {
		return gate.Checking
	}
	return state
}

func sessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeySessionID).(string)
	return id
}
