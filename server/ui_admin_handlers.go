package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/bloghub-admin/adminnav"
	"github.com/jrsteele09/bloghub-admin/contentapi"
	"github.com/jrsteele09/bloghub-admin/gate"
	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/jrsteele09/bloghub-admin/pagination"
	"github.com/jrsteele09/bloghub-admin/users"
	"github.com/rs/zerolog/log"
)

const (
	articlesPageSize = 10
	// recheckedParam marks a reload that already rechecked the session after a 401
	recheckedParam = "rechecked"
)

// AdminLayoutData is what admin_layout.html renders around every page
type AdminLayoutData struct {
	AppName    string
	PageTitle  string
	UserName   string
	UserEmail  string
	Menu       []adminnav.Entry
	LogoutPath string
	Notice     string
	Alert      string
	Content    template.HTML
}

// renderAdminPage renders a content template inside the admin layout
func (s *Server) renderAdminPage(w http.ResponseWriter, r *http.Request, status int, pageTitle, contentTemplate string, content any) {
	if state := gateStateFromContext(r.Context()); state != gate.AdminShell {
		log.Error().Str("path", r.URL.Path).Str("state", state.String()).Msg("admin layout refused outside the admin shell")
		http.NotFound(w, r)
		return
	}
	user := userFromContext(r.Context())

	contentTmpl, ok := s.templates[contentTemplate]
	if !ok {
		http.Error(w, "Failed to load content template", http.StatusInternalServerError)
		return
	}

	// Render content to string
	var contentBuf strings.Builder
	if err := contentTmpl.Execute(&contentBuf, content); err != nil {
		log.Err(err).Str("template", contentTemplate).Msg("Failed to render content")
		http.Error(w, "Failed to render content", http.StatusInternalServerError)
		return
	}

	data := AdminLayoutData{
		AppName:    s.config.GetAppName(),
		PageTitle:  pageTitle,
		UserName:   user.DisplayName(),
		Menu:       s.menu.Entries(r.URL.Path),
		LogoutPath: RouteAdminLogout,
		Notice:     r.URL.Query().Get("notice"),
		Alert:      r.URL.Query().Get("error"),
		Content:    template.HTML(contentBuf.String()),
	}
	if user != nil {
		data.UserEmail = user.Email
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := s.templates[layoutTemplate].Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render admin layout")
	}
}

// apiClient is the content API as the signed in admin
func (s *Server) apiClient(r *http.Request) *contentapi.Client {
	return s.provider.Client(r.Context(), sessionIDFromContext(r.Context()))
}

// handleAPIError deals with a failed content API call. A rejected token puts
// the session back into checking and reloads the page once, marked with
// rechecked=1, which then waits for the refresh. A second rejection and
// anything else become an error message on the page.
func (s *Server) handleAPIError(w http.ResponseWriter, r *http.Request, err error) (message string, handled bool) {
	if errors.Is(err, errors.ErrUnauthorized) {
		if r.URL.Query().Get(recheckedParam) != "" {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("content api still rejects the session after a recheck")
			return "The content API rejected your session. Log out and sign in again.", false
		}
		if recheckErr := s.provider.Recheck(r.Context(), sessionIDFromContext(r.Context())); recheckErr != nil {
			log.Warn().Err(recheckErr).Msg("could not recheck session")
		}
		redirectSuccess(w, r, withRecheckMarker(r.URL))
		return "", true
	}

	log.Warn().Err(err).Str("path", r.URL.Path).Msg("content api call failed")
	if errors.Is(err, errors.ErrNotAdmin) {
		return "The content API refused this request for your account.", false
	}
	return "The content API is unavailable right now. Try again shortly.", false
}

func withRecheckMarker(u *url.URL) string {
	q := u.Query()
	q.Set(recheckedParam, "1")
	return u.Path + "?" + q.Encode()
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

type dashboardContent struct {
	Stats *contentapi.DashboardStats
	Error string
}

// AdminDashboardHandler renders the overview page
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var content dashboardContent
		stats, err := s.apiClient(r).DashboardStats(r.Context())
		if err != nil {
			var handled bool
			if content.Error, handled = s.handleAPIError(w, r, err); handled {
				return
			}
		}
		content.Stats = stats
		s.renderAdminPage(w, r, http.StatusOK, "Overview", "admin_dashboard_content.html", content)
	}
}

type usersContent struct {
	List   *contentapi.UserList
	Filter contentapi.UserFilter
	Roles  []users.RoleType
	Error  string
}

// AdminUsersListHandler lists users with the search, role and status filters
func (s *Server) AdminUsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		content := usersContent{
			Filter: contentapi.UserFilter{
				Search: strings.TrimSpace(q.Get("search")),
				Role:   q.Get("role"),
				Status: q.Get("status"),
			},
			Roles: []users.RoleType{users.RoleAdmin, users.RoleAuthor, users.RoleReader},
		}

		list, err := s.apiClient(r).ListUsers(r.Context(), content.Filter)
		if err != nil {
			var handled bool
			if content.Error, handled = s.handleAPIError(w, r, err); handled {
				return
			}
		}
		content.List = list
		s.renderAdminPage(w, r, http.StatusOK, "Users", "admin_users_content.html", content)
	}
}

type articlesContent struct {
	Articles []contentapi.Article
	Total    int
	Pager    pagination.Pager
	Error    string
}

// AdminArticlesListHandler lists articles. The API returns them all, pages are cut here.
func (s *Server) AdminArticlesListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var content articlesContent
		articles, err := s.apiClient(r).ListArticles(r.Context())
		if err != nil {
			var handled bool
			if content.Error, handled = s.handleAPIError(w, r, err); handled {
				return
			}
		}

		content.Total = len(articles)
		content.Pager = pagination.New(pageParam(r), pagination.TotalPages(len(articles), articlesPageSize))
		content.Articles = pagination.Slice(articles, content.Pager.Current, articlesPageSize)
		s.renderAdminPage(w, r, http.StatusOK, "Articles", "admin_articles_content.html", content)
	}
}

type categoriesContent struct {
	Page  *contentapi.CategoryPage
	Pager pagination.Pager
	Error string
}

// AdminCategoriesListHandler shows one page of categories
func (s *Server) AdminCategoriesListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var content categoriesContent
		page := pageParam(r)
		categories, err := s.apiClient(r).ListCategories(r.Context(), page)
		if err != nil {
			var handled bool
			if content.Error, handled = s.handleAPIError(w, r, err); handled {
				return
			}
		}

		content.Page = categories
		if categories != nil {
			content.Pager = pagination.New(page, pagination.TotalPages(categories.Count, contentapi.CategoryPageSize))
		}
		s.renderAdminPage(w, r, http.StatusOK, "Categories", "admin_categories_content.html", content)
	}
}

// AdminNotFoundHandler answers every other path under the admin prefix.
// It runs behind the gate, so only admins learn that a page does not exist.
func (s *Server) AdminNotFoundHandler() http.HandlerFunc {
	dashboard := s.AdminDashboardHandler()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RouteAdminCatchAll {
			dashboard(w, r)
			return
		}
		content := map[string]string{"Path": r.URL.Path, "Home": s.paths.AdminHome}
		s.renderAdminPage(w, r, http.StatusNotFound, "Not found", "admin_notfound_content.html", content)
	}
}
