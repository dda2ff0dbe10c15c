package gate

// State is the gate's position in the navigation shell lifecycle
type State int

const (
	// Checking is the initial state: the session is still being resolved
	Checking State = iota
	// AuthForm shows the login form
	AuthForm
	// Redirecting waits for navigation to land somewhere else
	Redirecting
	// AdminShell shows the admin layout and its page
	AdminShell
)

func (s State) String() string {
	switch s {
	case AuthForm:
		return "auth_form"
	case Redirecting:
		return "redirecting"
	case AdminShell:
		return "admin_shell"
	default:
		return "checking"
	}
}

// State maps an action onto the lifecycle. Children are only rendered in AuthForm and AdminShell.
func (a Action) State() State {
	switch a.Kind {
	case Redirect:
		return Redirecting
	case Render:
		if a.Route == RouteAuth {
			return AuthForm
		}
		return AdminShell
	default:
		return Checking
	}
}

// RendersChildren reports whether the route's own content may be shown
func (a Action) RendersChildren() bool {
	s := a.State()
	return s == AuthForm || s == AdminShell
}
