package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/bloghub-admin/internal/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "bloghub:admin:session:"

var _ Repo = (*RedisRepo)(nil)

// RedisRepo stores sessions as JSON values that expire with the session
type RedisRepo struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisRepo creates a repository on an existing client
func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client, now: time.Now}
}

// NewRedisRepoFromURL parses a redis:// URL and checks the connection
func NewRedisRepoFromURL(ctx context.Context, url string) (*RedisRepo, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("[sessions NewRedisRepoFromURL] parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[sessions NewRedisRepoFromURL] ping: %w", err)
	}
	return NewRedisRepo(client), nil
}

// Close releases the underlying connection pool
func (r *RedisRepo) Close() error {
	return r.client.Close()
}

func (r *RedisRepo) Upsert(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("[RedisRepo Upsert] %w: session id is required", errors.ErrInvalidRequest)
	}

	// Redis needs a positive TTL; sessions without a max age live for a day
	ttl := 24 * time.Hour
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Delete(ctx, session.ID)
		}
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[RedisRepo Upsert] marshal: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+session.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("[RedisRepo Upsert] set: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("[RedisRepo Get] %w: session id is required", errors.ErrInvalidRequest)
	}

	payload, err := r.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[RedisRepo Get] get: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("[RedisRepo Get] unmarshal: %w", err)
	}
	return &session, nil
}

func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("[RedisRepo Delete] %w: session id is required", errors.ErrInvalidRequest)
	}
	if err := r.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("[RedisRepo Delete] del: %w", err)
	}
	return nil
}
