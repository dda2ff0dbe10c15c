package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/jrsteele09/bloghub-admin/sessions"
	"github.com/jrsteele09/bloghub-admin/users"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const redisKey = "bloghub:admin:session:"

func newRedisRepo(t *testing.T) (*sessions.RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	repo := sessions.NewRedisRepo(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = repo.Close() })
	return repo, mr
}

func TestRedisRepo(t *testing.T) {
	ctx := context.Background()
	admin := true

	t.Run("round trip", func(t *testing.T) {
		repo, mr := newRedisRepo(t)
		s := &sessions.Session{
			ID:           "s-1",
			User:         &users.User{ID: 1, Email: "ana@bloghub.io", IsAdmin: &admin},
			AccessToken:  "access",
			RefreshToken: "sealed",
			Status:       sessions.StatusPending,
			ExpiresAt:    time.Now().Add(time.Hour),
		}
		require.NoError(t, repo.Upsert(ctx, s))
		require.True(t, mr.Exists(redisKey+"s-1"))

		got, err := repo.Get(ctx, "s-1")
		require.NoError(t, err)
		require.Equal(t, "ana@bloghub.io", got.User.Email)
		require.True(t, got.User.Admin())
		require.Equal(t, "sealed", got.RefreshToken)
		require.True(t, got.Loading())
	})

	t.Run("ttl follows the session expiry", func(t *testing.T) {
		repo, mr := newRedisRepo(t)
		require.NoError(t, repo.Upsert(ctx, &sessions.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)}))

		ttl := mr.TTL(redisKey + "s-1")
		require.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

		mr.FastForward(2 * time.Hour)
		_, err := repo.Get(ctx, "s-1")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("session without max age lives a day", func(t *testing.T) {
		repo, mr := newRedisRepo(t)
		require.NoError(t, repo.Upsert(ctx, &sessions.Session{ID: "s-1"}))
		require.Equal(t, 24*time.Hour, mr.TTL(redisKey+"s-1"))
	})

	t.Run("expired upsert deletes", func(t *testing.T) {
		repo, mr := newRedisRepo(t)
		require.NoError(t, repo.Upsert(ctx, &sessions.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)}))
		require.NoError(t, repo.Upsert(ctx, &sessions.Session{ID: "s-1", ExpiresAt: time.Now().Add(-time.Minute)}))

		require.False(t, mr.Exists(redisKey+"s-1"))
		_, err := repo.Get(ctx, "s-1")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("unknown session", func(t *testing.T) {
		repo, _ := newRedisRepo(t)
		_, err := repo.Get(ctx, "missing")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo, mr := newRedisRepo(t)
		require.NoError(t, repo.Upsert(ctx, &sessions.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)}))
		require.NoError(t, repo.Delete(ctx, "s-1"))
		require.False(t, mr.Exists(redisKey+"s-1"))
		require.NoError(t, repo.Delete(ctx, "s-1"))
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		repo, _ := newRedisRepo(t)
		require.ErrorIs(t, repo.Upsert(ctx, &sessions.Session{}), errors.ErrInvalidRequest)
		_, err := repo.Get(ctx, "")
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		require.ErrorIs(t, repo.Delete(ctx, ""), errors.ErrInvalidRequest)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		repo, mr := newRedisRepo(t)
		require.NoError(t, mr.Set(redisKey+"s-1", "not json"))
		_, err := repo.Get(ctx, "s-1")
		require.Error(t, err)
		require.NotErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("unreachable server", func(t *testing.T) {
		repo, mr := newRedisRepo(t)
		mr.Close()
		_, err := repo.Get(ctx, "s-1")
		require.Error(t, err)
		require.NotErrorIs(t, err, errors.ErrSessionNotFound)
	})
}

func TestNewRedisRepoFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	repo, err := sessions.NewRedisRepoFromURL(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	_, err = sessions.NewRedisRepoFromURL(context.Background(), "not-a-url")
	require.Error(t, err)
}
