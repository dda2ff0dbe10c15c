package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/bloghub-admin/adminnav"
	"github.com/jrsteele09/bloghub-admin/auth"
	"github.com/jrsteele09/bloghub-admin/gate"
	"github.com/jrsteele09/bloghub-admin/internal/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	provider  *auth.Provider
	paths     gate.Paths
	menu      adminnav.Menu
	templates map[string]*template.Template
	validate  *validator.Validate
}

func New(config config.Config, provider *auth.Provider) (*Server, error) {
	if provider == nil {
		return nil, fmt.Errorf("[Server New] authentication provider is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to load templates: %w", err)
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		provider: provider,
		paths: gate.Paths{
			AdminPrefix: config.GetAdminPrefix(),
			Auth:        config.GetAdminLoginPath(),
			AdminHome:   config.GetAdminHomePath(),
			SiteRoot:    config.GetSiteRootPath(),
		},
		menu:      adminnav.DefaultMenu(),
		templates: templates,
		validate:  newFormValidator(),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Debug().Msg(colourMethod(method) + " " + path)
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
