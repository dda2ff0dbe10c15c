package auth

import (
	"context"

	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/jrsteele09/bloghub-admin/sessions"
	"github.com/jrsteele09/bloghub-admin/token"
	"github.com/jrsteele09/bloghub-admin/users"
	"github.com/rs/zerolog/log"
)

// syncProfile replaces the login user with the current profile and activates the session.
// A rejected token is refreshed once; any other failure keeps the login user.
func (p *Provider) syncProfile(ctx context.Context, sessionID string) {
	logger := log.With().Str("session", shortID(sessionID)).Logger()

	profile, err := p.fetchProfile(ctx, sessionID)
	if errors.Is(err, errors.ErrUnauthorized) {
		logger.Debug().Msg("profile sync rejected, refreshing access token")
		if !p.refreshTokens(ctx, sessionID) {
			return
		}
		profile, err = p.fetchProfile(ctx, sessionID)
	}
	if errors.Is(err, errors.ErrSessionNotFound) {
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("profile sync failed, keeping login profile")
	}

	err = p.update(ctx, sessionID, func(s *sessions.Session) {
		if profile != nil {
			s.User = mergeProfile(s.User, profile)
		}
		s.Status = sessions.StatusActive
	})
	if err != nil && !errors.Is(err, errors.ErrSessionNotFound) {
		logger.Error().Err(err).Msg("could not activate session")
	}
}

// refresh trades the refresh token for a new access token and activates the session.
// The session is removed when the refresh fails.
func (p *Provider) refresh(ctx context.Context, sessionID string) {
	if !p.refreshTokens(ctx, sessionID) {
		return
	}
	err := p.update(ctx, sessionID, func(s *sessions.Session) {
		s.Status = sessions.StatusActive
	})
	if err != nil && !errors.Is(err, errors.ErrSessionNotFound) {
		log.Error().Err(err).Str("session", shortID(sessionID)).Msg("could not activate session")
	}
}

// resume finishes a session left pending, for example by a restart between login and sync
func (p *Provider) resume(ctx context.Context, sessionID string) {
	s, err := p.repo.Get(ctx, sessionID)
	if err != nil || !s.Loading() {
		return
	}
	if s.AccessToken == "" || token.Expired(s.AccessExpiry, p.nowTime(), p.leeway) {
		p.refresh(ctx, sessionID)
		return
	}
	p.syncProfile(ctx, sessionID)
}

// refreshTokens stores a new access token, reporting whether the session survived
func (p *Provider) refreshTokens(ctx context.Context, sessionID string) bool {
	logger := log.With().Str("session", shortID(sessionID)).Logger()

	s, err := p.repo.Get(ctx, sessionID)
	if err != nil {
		return false
	}

	refreshToken, err := p.sealer.Open(s.RefreshToken)
	if err != nil {
		logger.Warn().Err(err).Msg("stored refresh token is unreadable")
		p.drop(ctx, sessionID)
		return false
	}

	tokens, err := p.api.RefreshAccess(ctx, refreshToken)
	if err != nil {
		logger.Info().Err(err).Msg("token refresh failed, ending session")
		p.drop(ctx, sessionID)
		return false
	}

	sealed := s.RefreshToken
	if tokens.Refresh != "" {
		if sealed, err = p.sealer.Seal(tokens.Refresh); err != nil {
			logger.Error().Err(err).Msg("could not seal rotated refresh token")
			p.drop(ctx, sessionID)
			return false
		}
	}

	err = p.update(ctx, sessionID, func(s *sessions.Session) {
		s.AccessToken = tokens.Access
		s.AccessExpiry = accessExpiry(tokens.Access)
		s.RefreshToken = sealed
	})
	if err != nil {
		if !errors.Is(err, errors.ErrSessionNotFound) {
			logger.Error().Err(err).Msg("could not store refreshed token")
		}
		return false
	}
	logger.Debug().Msg("access token refreshed")
	return true
}

func (p *Provider) fetchProfile(ctx context.Context, sessionID string) (*users.User, error) {
	if _, err := p.repo.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return p.Client(ctx, sessionID).Profile(ctx)
}

func (p *Provider) drop(ctx context.Context, sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.repo.Delete(ctx, sessionID); err != nil {
		log.Error().Err(err).Str("session", shortID(sessionID)).Msg("could not delete session")
	}
}

// mergeProfile takes the fresh profile but keeps a known is_admin when the
// profile payload does not carry the field
func mergeProfile(current, fresh *users.User) *users.User {
	merged := *fresh
	if merged.IsAdmin == nil && current != nil && current.ID == fresh.ID {
		merged.IsAdmin = current.IsAdmin
	}
	return &merged
}
