package gate_test

import (
	"testing"

	"github.com/jrsteele09/bloghub-admin/gate"
	"github.com/jrsteele09/bloghub-admin/internal/utils"
	"github.com/jrsteele09/bloghub-admin/users"
	"github.com/stretchr/testify/require"
)

var (
	admin     = &users.User{ID: 1, Email: "admin@bloghub.io", IsAdmin: utils.Ptr(true)}
	reader    = &users.User{ID: 2, Email: "reader@bloghub.io", IsAdmin: utils.Ptr(false)}
	malformed = &users.User{ID: 3, Email: "legacy@bloghub.io"}
)

func TestDecide(t *testing.T) {
	paths := gate.DefaultPaths()

	tests := []struct {
		name    string
		session gate.Session
		route   gate.Route
		want    gate.Action
		state   gate.State
	}{
		{"loading on auth route", gate.Session{Loading: true, User: admin}, gate.RouteAuth, gate.Action{Kind: gate.Wait, Route: gate.RouteAuth}, gate.Checking},
		{"loading on protected route", gate.Session{Loading: true}, gate.RouteProtected, gate.Action{Kind: gate.Wait, Route: gate.RouteProtected}, gate.Checking},
		{"auth route with admin", gate.Session{User: admin}, gate.RouteAuth, gate.Action{Kind: gate.Redirect, Route: gate.RouteAuth, Target: "/admin"}, gate.Redirecting},
		{"auth route with non-admin", gate.Session{User: reader}, gate.RouteAuth, gate.Action{Kind: gate.Render, Route: gate.RouteAuth}, gate.AuthForm},
		{"auth route without user", gate.Session{}, gate.RouteAuth, gate.Action{Kind: gate.Render, Route: gate.RouteAuth}, gate.AuthForm},
		{"protected without user", gate.Session{}, gate.RouteProtected, gate.Action{Kind: gate.Redirect, Route: gate.RouteProtected, Target: "/admin/login"}, gate.Redirecting},
		{"protected with non-admin", gate.Session{User: reader}, gate.RouteProtected, gate.Action{Kind: gate.Redirect, Route: gate.RouteProtected, Target: "/"}, gate.Redirecting},
		{"protected with missing is_admin", gate.Session{User: malformed}, gate.RouteProtected, gate.Action{Kind: gate.Redirect, Route: gate.RouteProtected, Target: "/"}, gate.Redirecting},
		{"protected with admin", gate.Session{User: admin}, gate.RouteProtected, gate.Action{Kind: gate.Render, Route: gate.RouteProtected}, gate.AdminShell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.Decide(tt.session, tt.route, paths)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.state, got.State())
		})
	}
}

func TestDecide_NeverRendersProtectedContentUnlessAdmin(t *testing.T) {
	paths := gate.DefaultPaths()
	for _, loading := range []bool{true, false} {
		for _, user := range []*users.User{nil, reader, malformed, admin} {
			a := gate.Decide(gate.Session{User: user, Loading: loading}, gate.RouteProtected, paths)
			if a.State() == gate.AdminShell {
				require.False(t, loading)
				require.Same(t, admin, user)
			}
		}
	}
}

func TestDecide_IsRepeatable(t *testing.T) {
	paths := gate.DefaultPaths()
	s := gate.Session{User: reader}
	first := gate.Decide(s, gate.RouteProtected, paths)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, gate.Decide(s, gate.RouteProtected, paths))
	}
}

func TestPaths_Classify(t *testing.T) {
	paths := gate.DefaultPaths()

	require.Equal(t, gate.RouteAuth, paths.Classify("/admin/login"))
	require.Equal(t, gate.RouteProtected, paths.Classify("/admin/login/"))
	require.Equal(t, gate.RouteProtected, paths.Classify("/admin/login//"))
	require.Equal(t, gate.RouteProtected, paths.Classify("/ADMIN/LOGIN"))
	require.Equal(t, gate.RouteProtected, paths.Classify("/admin"))
	require.Equal(t, gate.RouteProtected, paths.Classify("/admin/login/extra"))
	require.Equal(t, gate.RouteProtected, paths.Classify("/admin/loginx"))
	require.Equal(t, gate.RouteProtected, paths.Classify(""))

	// Without a login path nothing can be the auth route
	require.Equal(t, gate.RouteProtected, gate.Paths{}.Classify(""))
}

func TestAction_RendersChildren(t *testing.T) {
	require.True(t, gate.Action{Kind: gate.Render, Route: gate.RouteAuth}.RendersChildren())
	require.True(t, gate.Action{Kind: gate.Render, Route: gate.RouteProtected}.RendersChildren())
	require.False(t, gate.Action{Kind: gate.Wait}.RendersChildren())
	require.False(t, gate.Action{Kind: gate.Redirect, Target: "/"}.RendersChildren())
}
