package contentapi

import (
	"context"
	"fmt"

	"github.com/jrsteele09/bloghub-admin/users"
)

const (
	pathAdminUserUpdate = "/api/auth/admin/users/update/%d/"
	pathAdminUserDelete = "/api/auth/admin/users/delete/%d/"
	pathCategoryCreate  = "/api/category/create/"
	pathCategoryUpdate  = "/api/category/update/%d/"
	pathCategoryDelete  = "/api/category/delete/%d/"
	pathArticleDetail   = "/api/blog/retrieve/%d/"
	pathArticleCreate   = "/api/blog/create/"
	pathArticleUpdate   = "/api/blog/update/%d/"
	pathArticleDelete   = "/api/blog/delete/%d/"
)

// UserUpdate is the admin edit of an account. Empty fields are left unchanged.
type UserUpdate struct {
	Fullname string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`   // admin, author, reader
	Status   string `json:"status,omitempty"` // active, suspended
}

func (c *Client) UpdateUser(ctx context.Context, id int, update UserUpdate) (*users.User, error) {
	var resp envelope[users.User]
	if err := c.put(ctx, fmt.Sprintf(pathAdminUserUpdate, id), update, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi UpdateUser] %w", err)
	}
	return &resp.Data, nil
}

// DeleteUser removes an account. The backend refuses to delete the caller's own account.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	if err := c.delete(ctx, fmt.Sprintf(pathAdminUserDelete, id), nil); err != nil {
		return fmt.Errorf("[contentapi DeleteUser] %w", err)
	}
	return nil
}

type CategoryInput struct {
	Name     string `json:"name"`
	IconName string `json:"icon_name"`
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var resp envelope[Category]
	if err := c.post(ctx, pathCategoryCreate, in, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi CreateCategory] %w", err)
	}
	return &resp.Data, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int, in CategoryInput) (*Category, error) {
	var resp envelope[Category]
	if err := c.put(ctx, fmt.Sprintf(pathCategoryUpdate, id), in, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi UpdateCategory] %w", err)
	}
	return &resp.Data, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	if err := c.delete(ctx, fmt.Sprintf(pathCategoryDelete, id), nil); err != nil {
		return fmt.Errorf("[contentapi DeleteCategory] %w", err)
	}
	return nil
}

// ArticleInput is the writable part of an article. A nil Category leaves it uncategorised.
type ArticleInput struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsPublished bool   `json:"is_published"`
	Category    *int   `json:"category"`
}

// ArticleDetail is a single article with its body, used to prefill the edit form
type ArticleDetail struct {
	Article
	Content  string `json:"content"`
	Category *int   `json:"category"`
}

func (c *Client) GetArticle(ctx context.Context, id int) (*ArticleDetail, error) {
	var resp envelope[ArticleDetail]
	if err := c.get(ctx, fmt.Sprintf(pathArticleDetail, id), nil, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi GetArticle] %w", err)
	}
	return &resp.Data, nil
}

// CreateArticle publishes as the caller. Only authors and admins may create articles.
func (c *Client) CreateArticle(ctx context.Context, in ArticleInput) (*Article, error) {
	var resp envelope[Article]
	if err := c.post(ctx, pathArticleCreate, in, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi CreateArticle] %w", err)
	}
	return &resp.Data, nil
}

// UpdateArticle edits an article. The backend only lets the owner edit.
func (c *Client) UpdateArticle(ctx context.Context, id int, in ArticleInput) (*Article, error) {
	var resp envelope[Article]
	if err := c.put(ctx, fmt.Sprintf(pathArticleUpdate, id), in, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi UpdateArticle] %w", err)
	}
	return &resp.Data, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id int) error {
	if err := c.delete(ctx, fmt.Sprintf(pathArticleDelete, id), nil); err != nil {
		return fmt.Errorf("[contentapi DeleteArticle] %w", err)
	}
	return nil
}
