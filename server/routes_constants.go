package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public site
	RouteIndex   = "/{$}"
	RouteHealthz = "/healthz"

	// Admin console - session
	RouteAdminLogin  = "/admin/login"
	RouteAdminLogout = "/admin/logout"

	// Admin console - pages
	RouteAdminDashboard  = "/admin"
	RouteAdminUsers      = "/admin/users"
	RouteAdminArticles   = "/admin/articles"
	RouteAdminCategories = "/admin/categories"
	// Admin console - writes
	RouteAdminUserUpdate     = "/admin/users/{id}/update"
	RouteAdminUserDelete     = "/admin/users/{id}/delete"
	RouteAdminCategoryUpdate = "/admin/categories/{id}/update"
	RouteAdminCategoryDelete = "/admin/categories/{id}/delete"
	RouteAdminArticleNew     = "/admin/articles/new"
	RouteAdminArticleEdit    = "/admin/articles/{id}/edit"
	RouteAdminArticleUpdate  = "/admin/articles/{id}/update"
	RouteAdminArticleDelete  = "/admin/articles/{id}/delete"

	// Anything else under /admin/ is a protected not-found page
	RouteAdminCatchAll = "/admin/"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
