package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/bloghub-admin/gate"
	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Action  string
	Error   string
	Email   string // Preserve email on error
}

// LoginPageHandler displays the admin login form (GET /admin/login).
// The session gate has already sent admins to the dashboard.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Action:  s.paths.Auth,
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
		}
		s.renderPage(w, "login.html", data)
	}
}

// LoginSubmissionHandler processes the login form (POST /admin/login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		// A new login replaces whatever session the browser had
		if previous := sessionIDFromRequest(r); previous != "" {
			if err := s.provider.Logout(r.Context(), previous); err != nil {
				log.Warn().Err(err).Msg("could not end previous session")
			}
		}

		sessionID, err := s.provider.AdminLogin(r.Context(), email, password)
		if err != nil {
			log.Info().Err(err).Str("email", email).Msg("admin login failed")
			redirectWithError(w, r, s.paths.Auth, loginErrorMessage(err), email)
			return
		}

		s.SetSessionCookie(w, r, sessionID, s.config.GetMaxSessionAge())
		redirectSuccess(w, r, s.paths.AdminHome)
	}
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, errors.ErrInvalidRequest):
		return "Enter a valid email and a password of 5 to 100 characters"
	case errors.Is(err, errors.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, errors.ErrNotAdmin):
		return "This account does not have admin access"
	default:
		return "Login is unavailable right now, please try again"
	}
}

// LogoutHandler ends the session and always lands on the login form
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := sessionIDFromRequest(r)
		s.ClearSessionCookie(w, r)

		nav := &httpNavigator{w: w, r: r}
		if err := gate.New(s.provider.Source(sessionID), nav, s.paths).Logout(r.Context()); err != nil {
			log.Err(err).Msg("Logout: failed to delete session")
		}
	}
}
