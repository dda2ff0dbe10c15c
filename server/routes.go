package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteHealthz, ChainMiddleware(s.HealthzHandler(), s.APIMiddleware()...))

	// LOGIN / LOGOUT
	s.RegisterRouteHandler("GET "+RouteAdminLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAdminLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Admin routes (every page passes the session gate)
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersListHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("GET "+RouteAdminArticles, ChainMiddleware(s.AdminArticlesListHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("GET "+RouteAdminCategories, ChainMiddleware(s.AdminCategoriesListHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("GET "+RouteAdminArticleNew, ChainMiddleware(s.AdminArticleNewHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("GET "+RouteAdminArticleEdit, ChainMiddleware(s.AdminArticleEditHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("GET "+RouteAdminCatchAll, ChainMiddleware(s.AdminNotFoundHandler(), s.HTMLMiddleWare(s.SessionGate())...))

	// Admin writes (same gate, then back to the list with a notice or an error)
	s.RegisterRouteHandler("POST "+RouteAdminUserUpdate, ChainMiddleware(s.AdminUserUpdateHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminUserDelete, ChainMiddleware(s.AdminUserDeleteHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminCategories, ChainMiddleware(s.AdminCategoryCreateHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminCategoryUpdate, ChainMiddleware(s.AdminCategoryUpdateHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminCategoryDelete, ChainMiddleware(s.AdminCategoryDeleteHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminArticles, ChainMiddleware(s.AdminArticleCreateHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminArticleUpdate, ChainMiddleware(s.AdminArticleUpdateHandler(), s.HTMLMiddleWare(s.SessionGate())...))
	s.RegisterRouteHandler("POST "+RouteAdminArticleDelete, ChainMiddleware(s.AdminArticleDeleteHandler(), s.HTMLMiddleWare(s.SessionGate())...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			log.Warn().Err(err).Str("path", filePath).Msg("static file not served")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
