package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	pkgredis "github.com/prohmpiriya/storefront-console/pkg/redis"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// RedisTokenRepository stores the token under one well-known key.
// The key expires together with the token.
type RedisTokenRepository struct {
	client *pkgredis.Client
	key    string
}

// NewRedisTokenRepository creates a new RedisTokenRepository
func NewRedisTokenRepository(client *pkgredis.Client, key string) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, key: key}
}

// Save writes the token with a TTL of the time left until expiresAt.
// A token already past expiresAt clears the key and fails with
// ErrSessionExpired.
func (r *RedisTokenRepository) Save(ctx context.Context, token string, expiresAt time.Time) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.token.save")
	defer span.End()
	span.SetAttributes(attribute.String("key", r.key))

	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			if err := r.Clear(ctx); err != nil {
				return err
			}
			return fmt.Errorf("%w: token expired at %s", domain.ErrSessionExpired, expiresAt.Format(time.RFC3339))
		}
	}

	if err := r.client.SetString(ctx, r.key, token, ttl); err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to save token to redis: %w", err)
	}
	return nil
}

// Load reads the token
func (r *RedisTokenRepository) Load(ctx context.Context) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.token.load")
	defer span.End()

	token, err := r.client.GetString(ctx, r.key)
	if pkgredis.IsNil(err) {
		return "", domain.ErrTokenNotFound
	}
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return "", fmt.Errorf("failed to load token from redis: %w", err)
	}
	return token, nil
}

// Clear deletes the key
func (r *RedisTokenRepository) Clear(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.token.clear")
	defer span.End()

	if err := r.client.Del(ctx, r.key); err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to clear token in redis: %w", err)
	}
	return nil
}
