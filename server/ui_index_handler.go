package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// IndexHandler renders the public site root, where non-admins are sent
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName":   s.config.GetAppName(),
			"AdminHome": s.paths.AdminHome,
			"SignedIn":  sessionIDFromRequest(r) != "",
		}
		s.renderPage(w, "index.html", data)
	}
}

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// renderLoading shows the placeholder while the session is being checked.
// The page refreshes itself until the gate decides.
func (s *Server) renderLoading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	data := map[string]interface{}{
		"AppName":        s.config.GetAppName(),
		"RefreshSeconds": 1,
		"Path":           r.URL.RequestURI(),
	}
	s.renderPage(w, loadingTemplate, data)
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		log.Error().Str("template", name).Msg("unknown template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("template", name).Msg("Failed to render template")
	}
}
