package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "store-locator:session:"

// RedisSessionRepository implements SessionRepository on Redis.
// Offline sessions do not expire, so keys are written without a TTL.
type RedisSessionRepository struct {
	client redis.Cmdable
}

// NewRedisSessionRepository creates a new Redis session repository
func NewRedisSessionRepository(client redis.Cmdable) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

var _ ports.SessionRepository = (*RedisSessionRepository)(nil)

func sessionKey(shop string) string {
	return sessionKeyPrefix + shop
}

// GetSession retrieves the offline session of a shop
func (r *RedisSessionRepository) GetSession(ctx context.Context, shop string) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(shop)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session redisSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return session.toDomain(), nil
}

// SaveSession stores the offline session of a shop
func (r *RedisSessionRepository) SaveSession(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(redisSessionFromDomain(session))
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(session.Shop), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// DeleteSession removes the offline session of a shop
func (r *RedisSessionRepository) DeleteSession(ctx context.Context, shop string) error {
	if err := r.client.Del(ctx, sessionKey(shop)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// redisSession is the stored form; domain.Session hides the token from JSON
type redisSession struct {
	Shop                 string    `json:"shop"`
	EncryptedAccessToken string    `json:"encryptedAccessToken"`
	Scope                string    `json:"scope"`
	CreatedAt            time.Time `json:"createdAt"`
}

func redisSessionFromDomain(s *domain.Session) redisSession {
	return redisSession{
		Shop:                 s.Shop,
		EncryptedAccessToken: s.EncryptedAccessToken,
		Scope:                s.Scope,
		CreatedAt:            s.CreatedAt,
	}
}

func (s redisSession) toDomain() *domain.Session {
	return &domain.Session{
		Shop:                 s.Shop,
		EncryptedAccessToken: s.EncryptedAccessToken,
		Scope:                s.Scope,
		CreatedAt:            s.CreatedAt,
	}
}
