package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/jrsteele09/bloghub-admin/sessions"
	"github.com/jrsteele09/bloghub-admin/users"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo(t *testing.T) {
	ctx := context.Background()
	repo := sessions.NewInMemoryRepo()

	t.Run("get unknown session", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		require.ErrorIs(t, repo.Upsert(ctx, &sessions.Session{}), errors.ErrInvalidRequest)
		_, err := repo.Get(ctx, "")
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("stored sessions are copies", func(t *testing.T) {
		s := &sessions.Session{ID: "s-1", Status: sessions.StatusPending, User: &users.User{Email: "ana@bloghub.io"}}
		require.NoError(t, repo.Upsert(ctx, s))

		s.Status = sessions.StatusActive
		got, err := repo.Get(ctx, "s-1")
		require.NoError(t, err)
		require.True(t, got.Loading())

		got.Status = sessions.StatusActive
		again, err := repo.Get(ctx, "s-1")
		require.NoError(t, err)
		require.True(t, again.Loading())
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "s-1"))
		require.NoError(t, repo.Delete(ctx, "s-1"))
		require.Equal(t, 0, repo.Len())
	})
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	require.False(t, (&sessions.Session{}).Expired(now))
	require.False(t, (&sessions.Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	require.True(t, (&sessions.Session{ExpiresAt: now}).Expired(now))
}

func TestSealer(t *testing.T) {
	sealer, err := sessions.NewSealer("test-secret")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		sealed, err := sealer.Seal("refresh-token-value")
		require.NoError(t, err)
		require.NotContains(t, sealed, "refresh-token-value")

		plain, err := sealer.Open(sealed)
		require.NoError(t, err)
		require.Equal(t, "refresh-token-value", plain)
	})

	t.Run("empty stays empty", func(t *testing.T) {
		sealed, err := sealer.Seal("")
		require.NoError(t, err)
		require.Empty(t, sealed)
	})

	t.Run("tampered box fails", func(t *testing.T) {
		sealed, err := sealer.Seal("refresh-token-value")
		require.NoError(t, err)

		tampered := []byte(sealed)
		mid := len(tampered) / 2
		if tampered[mid] == 'A' {
			tampered[mid] = 'B'
		} else {
			tampered[mid] = 'A'
		}
		_, err = sealer.Open(string(tampered))
		require.ErrorIs(t, err, errors.ErrSealedToken)
	})

	t.Run("other key fails", func(t *testing.T) {
		sealed, err := sealer.Seal("refresh-token-value")
		require.NoError(t, err)

		other, err := sessions.NewSealer("another-secret")
		require.NoError(t, err)
		_, err = other.Open(sealed)
		require.ErrorIs(t, err, errors.ErrSealedToken)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := sessions.NewSealer("")
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})
}
