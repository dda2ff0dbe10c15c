package contentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/jrsteele09/bloghub-admin/users"
)

const (
	pathAdminLogin   = "/api/auth/admin/login/"
	pathTokenRefresh = "/api/token/refresh/"
	pathProfile      = "/api/auth/profile/"
)

// Tokens is the simplejwt pair issued on login
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResult is the data of a successful login
type LoginResult struct {
	User   *users.User `json:"user"`
	Tokens Tokens      `json:"tokens"`
}

// AdminLogin exchanges admin credentials for a token pair.
// Rejected credentials match errors.ErrInvalidCredentials.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	var resp envelope[LoginResult]
	err := c.post(ctx, pathAdminLogin, map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, fmt.Errorf("[contentapi AdminLogin] %w: %s", errors.ErrInvalidCredentials, apiErr.Message)
		}
		return nil, fmt.Errorf("[contentapi AdminLogin] %w", err)
	}
	if resp.Data.User == nil || resp.Data.Tokens.Access == "" {
		return nil, fmt.Errorf("[contentapi AdminLogin] %w: incomplete login response", errors.ErrUpstream)
	}
	return &resp.Data, nil
}

// RefreshAccess trades a refresh token for new tokens.
// Refresh is empty unless the backend rotates refresh tokens.
func (c *Client) RefreshAccess(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("[contentapi RefreshAccess] %w: no refresh token", errors.ErrUnauthorized)
	}

	var tokens Tokens
	if err := c.post(ctx, pathTokenRefresh, map[string]string{"refresh": refreshToken}, &tokens); err != nil {
		return nil, fmt.Errorf("[contentapi RefreshAccess] %w", err)
	}
	if tokens.Access == "" {
		return nil, fmt.Errorf("[contentapi RefreshAccess] %w: empty access token", errors.ErrUpstream)
	}
	return &tokens, nil
}

// Profile fetches the current user's profile. The client must carry a token source.
func (c *Client) Profile(ctx context.Context) (*users.User, error) {
	var resp envelope[json.RawMessage]
	if err := c.get(ctx, pathProfile, nil, &resp); err != nil {
		return nil, fmt.Errorf("[contentapi Profile] %w", err)
	}

	// Some deployments nest the profile under "user"
	var nested struct {
		User *users.User `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &nested); err == nil && nested.User != nil {
		return nested.User, nil
	}

	var user users.User
	if err := json.Unmarshal(resp.Data, &user); err != nil {
		return nil, fmt.Errorf("[contentapi Profile] %w: decode profile: %v", errors.ErrUpstream, err)
	}
	return &user, nil
}
