package auth

import (
	"context"
	"fmt"

	"github.com/jrsteele09/bloghub-admin/contentapi"
	"github.com/jrsteele09/bloghub-admin/gate"
	"golang.org/x/oauth2"
)

// sessionTokenSource reads the session's current access token on every call,
// so a refresh is picked up without rebuilding the client
type sessionTokenSource struct {
	ctx       context.Context
	provider  *Provider
	sessionID string
}

func (ts sessionTokenSource) Token() (*oauth2.Token, error) {
	s, err := ts.provider.repo.Get(ts.ctx, ts.sessionID)
	if err != nil {
		return nil, fmt.Errorf("[auth Token] %w", err)
	}
	return &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.AccessExpiry,
	}, nil
}

// TokenSource returns the bearer token source for a session
func (p *Provider) TokenSource(ctx context.Context, sessionID string) oauth2.TokenSource {
	return sessionTokenSource{ctx: ctx, provider: p, sessionID: sessionID}
}

// Client returns a content API client authenticated as the session's user
func (p *Provider) Client(ctx context.Context, sessionID string) *contentapi.Client {
	return p.api.WithTokenSource(ctx, p.TokenSource(ctx, sessionID))
}

// boundSource is the provider as seen by the gate for one session
type boundSource struct {
	provider  *Provider
	sessionID string
}

var _ gate.SessionSource = boundSource{}

func (b boundSource) Session(ctx context.Context) gate.Session {
	return b.provider.Session(ctx, b.sessionID)
}

func (b boundSource) Logout(ctx context.Context) error {
	return b.provider.Logout(ctx, b.sessionID)
}

// Source binds the provider to one session id. An empty id is an anonymous visitor.
func (p *Provider) Source(sessionID string) gate.SessionSource {
	return boundSource{provider: p, sessionID: sessionID}
}
