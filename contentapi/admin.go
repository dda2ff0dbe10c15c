package contentapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/bloghub-admin/internal/utils"
	"github.com/jrsteele09/bloghub-admin/users"
)

const (
	pathAdminDashboard = "/api/auth/admin/dashboard/"
	pathAdminUsers     = "/api/auth/admin/users/"
	pathArticleList    = "/api/blog/list/"
	pathCategoryList   = "/api/category/list/"
)

// DashboardStats are the user counters shown on the overview page
type DashboardStats struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
	AdminUsers  int `json:"admin_users"`
	AuthorUsers int `json:"author_users"`
	ReaderUsers int `json:"reader_users"`
	RecentUsers int `json:"recent_users"`
}

func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var resp envelope[DashboardStats]
	if err := c.get(ctx, pathAdminDashboard, nil, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi DashboardStats] %w", err)
	}
	return &resp.Data, nil
}

// UserFilter narrows the admin users list. Empty fields mean "all".
type UserFilter struct {
	Search string
	Role   string // admin, author, reader
	Status string // active, suspended
}

func (f UserFilter) query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	return q
}

// UserStats are the counters returned with the users list
type UserStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Authors int `json:"authors"`
	Admins  int `json:"admins"`
	Readers int `json:"readers"`
}

type UserList struct {
	Users []users.User
	Count int
	Stats UserStats
}

func (c *Client) ListUsers(ctx context.Context, filter UserFilter) (*UserList, error) {
	var resp struct {
		envelope[[]users.User]
		Count int       `json:"count"`
		Stats UserStats `json:"stats"`
	}
	if err := c.get(ctx, pathAdminUsers, filter.query(), &resp); err != nil {
		return nil, fmt.Errorf("[contentapi ListUsers] %w", err)
	}
	return &UserList{Users: resp.Data, Count: resp.Count, Stats: resp.Stats}, nil
}

// Article is the subset of the article payload the console lists
type Article struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Excerpt      string    `json:"excerpt"`
	AuthorName   string    `json:"author_name"`
	CategoryName string    `json:"category_name"`
	ViewCount    int       `json:"view_count"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListArticles returns every published article, newest first. The backend does not paginate this endpoint.
func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	var resp envelope[[]Article]
	if err := c.get(ctx, pathArticleList, nil, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi ListArticles] %w", err)
	}
	return resp.Data, nil
}

// CategoryPageSize is the backend's default page size for the category list
const CategoryPageSize = 6

type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IconName string `json:"icon_name"`
}

// CategoryPage is one page of the DRF page-number pagination
type CategoryPage struct {
	Categories []Category
	Count      int
	HasNext    bool
	HasPrev    bool
}

// ListCategories fetches a single page of active categories
func (c *Client) ListCategories(ctx context.Context, page int) (*CategoryPage, error) {
	if page < 1 {
		page = 1
	}

	var resp struct {
		Count    int                  `json:"count"`
		Next     *string              `json:"next"`
		Previous *string              `json:"previous"`
		Results  envelope[[]Category] `json:"results"`
	}
	q := url.Values{"page": []string{strconv.Itoa(page)}}
	if err := c.get(ctx, pathCategoryList, q, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi ListCategories] %w", err)
	}

	return &CategoryPage{
		Categories: resp.Results.Data,
		Count:      resp.Count,
		HasNext:    utils.Value(resp.Next) != "",
		HasPrev:    utils.Value(resp.Previous) != "",
	}, nil
}

// maxCategoryPages bounds AllCategories against a backend that never reports the last page
const maxCategoryPages = 50

// AllCategories walks the category pages, for pickers that need every category
func (c *Client) AllCategories(ctx context.Context) ([]Category, error) {
	var all []Category
	for page := 1; page <= maxCategoryPages; page++ {
		p, err := c.ListCategories(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("[contentapi AllCategories] %w", err)
		}
		all = append(all, p.Categories...)
		if !p.HasNext {
			break
		}
	}
	return all, nil
}
