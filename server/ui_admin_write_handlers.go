package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/bloghub-admin/contentapi"
	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

// redirectWithNotice sends the admin back to path with a confirmation message
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	q := url.Values{}
	q.Set("notice", notice)
	redirectSuccess(w, r, path+"?"+q.Encode())
}

// writeErrorMessage explains a failed content API write. A rejected token
// rechecks the session, the admin resubmits once it is active again.
func (s *Server) writeErrorMessage(r *http.Request, err error) string {
	log.Warn().Err(err).Str("path", r.URL.Path).Msg("content api write failed")

	var apiErr *contentapi.APIError
	switch {
	case errors.Is(err, errors.ErrUnauthorized):
		if recheckErr := s.provider.Recheck(r.Context(), sessionIDFromContext(r.Context())); recheckErr != nil {
			log.Warn().Err(recheckErr).Msg("could not recheck session")
		}
		return "Your session had to be rechecked. Submit the change again."
	case errors.Is(err, errors.ErrInvalidRequest) && errors.As(err, &apiErr):
		return apiErr.Detail()
	case errors.Is(err, errors.ErrNotAdmin):
		return "The content API refused this change for your account."
	case errors.Is(err, errors.ErrNotFound):
		return "That item no longer exists."
	default:
		return "The content API is unavailable right now. Try again shortly."
	}
}

// AdminUserUpdateHandler saves the edit form of one user row
func (s *Server) AdminUserUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		form := userFormFromRequest(r)
		if err := s.validate.Struct(&form); err != nil {
			redirectWithError(w, r, RouteAdminUsers, formErrorMessage(err), "")
			return
		}

		user, err := s.apiClient(r).UpdateUser(r.Context(), id, form.update())
		if err != nil {
			redirectWithError(w, r, RouteAdminUsers, s.writeErrorMessage(r, err), "")
			return
		}
		redirectWithNotice(w, r, RouteAdminUsers, fmt.Sprintf("Saved %s", user.DisplayName()))
	}
}

// AdminUserDeleteHandler removes a user. Admins cannot remove themselves.
func (s *Server) AdminUserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if me := userFromContext(r.Context()); me != nil && me.ID == id {
			redirectWithError(w, r, RouteAdminUsers, "You cannot delete your own account", "")
			return
		}

		if err := s.apiClient(r).DeleteUser(r.Context(), id); err != nil {
			redirectWithError(w, r, RouteAdminUsers, s.writeErrorMessage(r, err), "")
			return
		}
		redirectWithNotice(w, r, RouteAdminUsers, "User deleted")
	}
}

// AdminCategoryCreateHandler adds a category from the form above the list
func (s *Server) AdminCategoryCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := categoryFormFromRequest(r)
		if err := s.validate.Struct(&form); err != nil {
			redirectWithError(w, r, RouteAdminCategories, formErrorMessage(err), "")
			return
		}

		category, err := s.apiClient(r).CreateCategory(r.Context(), form.input())
		if err != nil {
			redirectWithError(w, r, RouteAdminCategories, s.writeErrorMessage(r, err), "")
			return
		}
		redirectWithNotice(w, r, RouteAdminCategories, fmt.Sprintf("Created %s", category.Name))
	}
}

func (s *Server) AdminCategoryUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		form := categoryFormFromRequest(r)
		if err := s.validate.Struct(&form); err != nil {
			redirectWithError(w, r, RouteAdminCategories, formErrorMessage(err), "")
			return
		}

		category, err := s.apiClient(r).UpdateCategory(r.Context(), id, form.input())
		if err != nil {
			redirectWithError(w, r, RouteAdminCategories, s.writeErrorMessage(r, err), "")
			return
		}
		redirectWithNotice(w, r, RouteAdminCategories, fmt.Sprintf("Saved %s", category.Name))
	}
}

func (s *Server) AdminCategoryDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := s.apiClient(r).DeleteCategory(r.Context(), id); err != nil {
			redirectWithError(w, r, RouteAdminCategories, s.writeErrorMessage(r, err), "")
			return
		}
		redirectWithNotice(w, r, RouteAdminCategories, "Category deleted")
	}
}

type articleFormContent struct {
	Action     string
	Editing    bool
	Form       articleForm
	Categories []contentapi.Category
	Error      string
}

// renderArticleForm shows the article editor. Categories that fail to load leave the picker empty.
func (s *Server) renderArticleForm(w http.ResponseWriter, r *http.Request, status int, content articleFormContent) {
	categories, err := s.apiClient(r).AllCategories(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("could not load categories for the article form")
	}
	content.Categories = categories

	title := "New article"
	if content.Editing {
		title = "Edit article"
	}
	s.renderAdminPage(w, r, status, title, "admin_article_form_content.html", content)
}

// AdminArticleNewHandler shows an empty article editor
func (s *Server) AdminArticleNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderArticleForm(w, r, http.StatusOK, articleFormContent{Action: RouteAdminArticles})
	}
}

// AdminArticleEditHandler shows the editor filled with the stored article
func (s *Server) AdminArticleEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		article, err := s.apiClient(r).GetArticle(r.Context(), id)
		if errors.Is(err, errors.ErrNotFound) {
			content := map[string]string{"Path": r.URL.Path, "Home": RouteAdminArticles}
			s.renderAdminPage(w, r, http.StatusNotFound, "Not found", "admin_notfound_content.html", content)
			return
		}
		content := articleFormContent{Action: fmt.Sprintf("/admin/articles/%d/update", id), Editing: true}
		if err != nil {
			var handled bool
			if content.Error, handled = s.handleAPIError(w, r, err); handled {
				return
			}
		} else {
			content.Form = articleForm{Title: article.Title, Content: article.Content, Published: article.IsPublished}
			if article.Category != nil {
				content.Form.Category = fmt.Sprint(*article.Category)
			}
		}
		s.renderArticleForm(w, r, http.StatusOK, content)
	}
}

// AdminArticleCreateHandler publishes a new article as the signed in admin.
// A rejected form is shown again with what was typed.
func (s *Server) AdminArticleCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content := articleFormContent{Action: RouteAdminArticles, Form: articleFormFromRequest(r)}
		if err := s.validate.Struct(&content.Form); err != nil {
			content.Error = formErrorMessage(err)
			s.renderArticleForm(w, r, http.StatusUnprocessableEntity, content)
			return
		}

		article, err := s.apiClient(r).CreateArticle(r.Context(), content.Form.input())
		if err != nil {
			content.Error = s.writeErrorMessage(r, err)
			s.renderArticleForm(w, r, http.StatusUnprocessableEntity, content)
			return
		}
		redirectWithNotice(w, r, RouteAdminArticles, fmt.Sprintf("Created %s", article.Title))
	}
}

// AdminArticleUpdateHandler saves the editor. The backend only accepts edits from the article's author.
func (s *Server) AdminArticleUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		content := articleFormContent{
			Action:  fmt.Sprintf("/admin/articles/%d/update", id),
			Editing: true,
			Form:    articleFormFromRequest(r),
		}
		if err := s.validate.Struct(&content.Form); err != nil {
			content.Error = formErrorMessage(err)
			s.renderArticleForm(w, r, http.StatusUnprocessableEntity, content)
			return
		}

		if _, err := s.apiClient(r).UpdateArticle(r.Context(), id, content.Form.input()); err != nil {
			content.Error = s.writeErrorMessage(r, err)
			s.renderArticleForm(w, r, http.StatusUnprocessableEntity, content)
			return
		}
		redirectWithNotice(w, r, RouteAdminArticles, fmt.Sprintf("Saved %s", content.Form.Title))
	}
}

func (s *Server) AdminArticleDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := s.apiClient(r).DeleteArticle(r.Context(), id); err != nil {
			redirectWithError(w, r, RouteAdminArticles, s.writeErrorMessage(r, err), "")
			return
		}
		redirectWithNotice(w, r, RouteAdminArticles, "Article deleted")
	}
}
