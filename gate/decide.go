// Package gate decides whether an admin console request renders, waits for
// the session check, or is sent elsewhere.
//
// Decide holds the whole decision table and has no memory, so it is safe to
// call again whenever the session or the route changes. Gate wraps it with
// the side effects: reading the session and issuing replace-style navigation.
package gate

import (
	"github.com/jrsteele09/bloghub-admin/users"
)

// Session is the authentication state as the provider currently knows it
type Session struct {
	User    *users.User
	Loading bool
}

// Route is the gate's view of the current path
type Route int

const (
	// RouteProtected needs an authenticated admin
	RouteProtected Route = iota
	// RouteAuth is the login form
	RouteAuth
)

func (r Route) String() string {
	if r == RouteAuth {
		return "auth"
	}
	return "protected"
}

// Paths are the fixed locations the gate classifies against and redirects to
type Paths struct {
	AdminPrefix string
	Auth        string
	AdminHome   string
	SiteRoot    string
}

func DefaultPaths() Paths {
	return Paths{
		AdminPrefix: "/admin",
		Auth:        "/admin/login",
		AdminHome:   "/admin",
		SiteRoot:    "/",
	}
}

// Classify returns RouteAuth only for the exact login path.
// Everything else, including the login path with a trailing slash, is protected.
func (p Paths) Classify(path string) Route {
	if p.Auth != "" && path == p.Auth {
		return RouteAuth
	}
	return RouteProtected
}

// Kind is what the caller must do with a decision
type Kind int

const (
	// Wait renders the loading placeholder and navigates nowhere
	Wait Kind = iota
	// Render shows the route's own content
	Render
	// Redirect replaces the current location with Target
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "wait"
	}
}

// Action is the outcome of one decision
type Action struct {
	Kind   Kind
	Route  Route
	Target string
}

// Decide evaluates the gate's table for session on route. First match wins:
//
//	loading                         -> wait
//	auth route, admin               -> redirect to admin home
//	auth route, anyone else         -> render the login form
//	protected, no user              -> redirect to the login form
//	protected, non-admin            -> redirect to the site root
//	protected, admin                -> render
func Decide(session Session, route Route, paths Paths) Action {
	if session.Loading {
		return Action{Kind: Wait, Route: route}
	}

	if route == RouteAuth {
		if session.User.Admin() {
			return Action{Kind: Redirect, Route: route, Target: paths.AdminHome}
		}
		return Action{Kind: Render, Route: route}
	}

	switch {
	case session.User == nil:
		return Action{Kind: Redirect, Route: route, Target: paths.Auth}
	case !session.User.Admin():
		return Action{Kind: Redirect, Route: route, Target: paths.SiteRoot}
	default:
		return Action{Kind: Render, Route: route}
	}
}
