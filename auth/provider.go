// Package auth is the admin console's authentication provider. It owns the
// login sessions and exposes each one to the gate as {user, loading, logout}.
//
// A session is loading while the provider is still checking it: right after
// login until the profile sync finishes, and whenever the access token has
// expired until the refresh finishes. Checks run in the background so the
// gate never blocks on the content API.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jrsteele09/bloghub-admin/contentapi"
	"github.com/jrsteele09/bloghub-admin/gate"
	"github.com/jrsteele09/bloghub-admin/internal/config"
	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/jrsteele09/bloghub-admin/sessions"
	"github.com/jrsteele09/bloghub-admin/token"
	"github.com/rs/zerolog/log"
)

// LoginForm is the admin login form as submitted
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=5,max=100"`
}

// Provider keeps login sessions and their background checks
type Provider struct {
	api      *contentapi.Client
	repo     sessions.Repo
	sealer   *sessions.Sealer
	validate *validator.Validate

	maxAge      time.Duration
	syncTimeout time.Duration
	leeway      time.Duration
	nowTime     func() time.Time

	// mu serialises read-modify-write cycles on the store so a background
	// check cannot bring back a session deleted by logout
	mu       sync.Mutex
	inflight map[string]struct{}
	checks   sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// ProviderOption modifies a Provider during construction
type ProviderOption func(*Provider)

// WithNowTime sets the clock used for session ages (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ProviderOption {
	return func(p *Provider) {
		p.nowTime = nowFunc
	}
}

func NewProvider(api *contentapi.Client, repo sessions.Repo, sealer *sessions.Sealer, cfg config.SecurityConfig, options ...ProviderOption) (*Provider, error) {
	if api == nil {
		return nil, fmt.Errorf("[NewProvider] content api client is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("[NewProvider] session repo is required")
	}
	if sealer == nil {
		return nil, fmt.Errorf("[NewProvider] sealer is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("[NewProvider] security config is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Provider{
		api:         api,
		repo:        repo,
		sealer:      sealer,
		validate:    validator.New(),
		maxAge:      cfg.GetMaxSessionAge(),
		syncTimeout: cfg.GetProfileSyncTimeout(),
		leeway:      cfg.GetTokenLeeway(),
		nowTime:     time.Now,
		inflight:    make(map[string]struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

// AdminLogin authenticates against the content API and returns the new session id.
// The session starts loading; the profile sync finishes it in the background.
func (p *Provider) AdminLogin(ctx context.Context, email, password string) (string, error) {
	form := LoginForm{Email: email, Password: password}
	if err := p.validate.Struct(&form); err != nil {
		return "", fmt.Errorf("[Provider AdminLogin] %w: %v", errors.ErrInvalidRequest, err)
	}

	result, err := p.api.AdminLogin(ctx, form.Email, form.Password)
	if err != nil {
		return "", fmt.Errorf("[Provider AdminLogin] %w", err)
	}

	sealed, err := p.sealer.Seal(result.Tokens.Refresh)
	if err != nil {
		return "", fmt.Errorf("[Provider AdminLogin] seal refresh token: %w", err)
	}

	now := p.nowTime()
	session := &sessions.Session{
		ID:           uuid.NewString(),
		User:         result.User,
		AccessToken:  result.Tokens.Access,
		RefreshToken: sealed,
		AccessExpiry: accessExpiry(result.Tokens.Access),
		Status:       sessions.StatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(p.maxAge),
	}
	if err := p.repo.Upsert(ctx, session); err != nil {
		return "", fmt.Errorf("[Provider AdminLogin] store session: %w", err)
	}

	log.Info().Str("session", shortID(session.ID)).Int("user_id", result.User.ID).Msg("admin login")
	p.startCheck(session.ID, p.syncProfile)
	return session.ID, nil
}

// Session reports the current state of a session without waiting for any check.
// Unknown and expired sessions have no user.
func (p *Provider) Session(ctx context.Context, sessionID string) gate.Session {
	if sessionID == "" {
		return gate.Session{}
	}

	s, err := p.repo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, errors.ErrSessionNotFound) {
			log.Warn().Err(err).Str("session", shortID(sessionID)).Msg("session lookup failed")
		}
		return gate.Session{}
	}

	now := p.nowTime()
	if s.Expired(now) {
		p.mu.Lock()
		_ = p.repo.Delete(ctx, sessionID)
		p.mu.Unlock()
		return gate.Session{}
	}

	switch {
	case s.Status == sessions.StatusActive && token.Expired(s.AccessExpiry, now, p.leeway):
		if err := p.markPending(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("session", shortID(sessionID)).Msg("could not start token refresh")
			return gate.Session{}
		}
		p.startCheck(sessionID, p.refresh)
		return gate.Session{User: s.User, Loading: true}
	case s.Loading() && !p.checking(sessionID):
		// Left pending by a previous process
		p.startCheck(sessionID, p.resume)
	}

	return gate.Session{User: s.User, Loading: s.Loading()}
}

// Recheck puts a session back into loading and refreshes its access token.
// Handlers call it when the content API rejected the current token.
func (p *Provider) Recheck(ctx context.Context, sessionID string) error {
	if err := p.markPending(ctx, sessionID); err != nil {
		return fmt.Errorf("[Provider Recheck] %w", err)
	}
	p.startCheck(sessionID, p.refresh)
	return nil
}

// Logout removes the session. Checks still running for it are discarded.
func (p *Provider) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("[Provider Logout] %w", err)
	}
	log.Info().Str("session", shortID(sessionID)).Msg("admin logout")
	return nil
}

// Wait blocks until every background check has finished
func (p *Provider) Wait() {
	p.checks.Wait()
}

// Close cancels running checks and waits for them
func (p *Provider) Close() {
	p.cancel()
	p.checks.Wait()
}

func (p *Provider) markPending(ctx context.Context, sessionID string) error {
	return p.update(ctx, sessionID, func(s *sessions.Session) {
		s.Status = sessions.StatusPending
	})
}

// update applies fn to the stored session under the provider lock
func (p *Provider) update(ctx context.Context, sessionID string, fn func(s *sessions.Session)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	fn(s)
	return p.repo.Upsert(ctx, s)
}

func (p *Provider) checking(sessionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.inflight[sessionID]
	return ok
}

// startCheck runs check in the background unless one is already running for the session
func (p *Provider) startCheck(sessionID string, check func(ctx context.Context, sessionID string)) {
	p.mu.Lock()
	if _, ok := p.inflight[sessionID]; ok {
		p.mu.Unlock()
		return
	}
	p.inflight[sessionID] = struct{}{}
	p.mu.Unlock()

	p.checks.Add(1)
	go func() {
		defer p.checks.Done()
		defer func() {
			p.mu.Lock()
			delete(p.inflight, sessionID)
			p.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(p.ctx, p.syncTimeout)
		defer cancel()
		check(ctx, sessionID)
	}()
}

func accessExpiry(accessToken string) time.Time {
	expiry, err := token.ExpiryOf(accessToken)
	if err != nil {
		log.Debug().Err(err).Msg("access token has no readable expiry")
		return time.Time{}
	}
	return expiry
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
