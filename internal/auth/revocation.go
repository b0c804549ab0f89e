package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore records logged-out token IDs until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "lms:revoked:"

// RedisRevocations keeps one key per revoked jti with a TTL matching the
// token's remaining lifetime, so the denylist never outgrows live tokens.
type RedisRevocations struct {
	client *redis.Client
}

var _ RevocationStore = (*RedisRevocations)(nil)

// NewRedisRevocations stores revocations in client.
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client}
}

// Revoke denies jti until the given time. An already expired token needs
// no entry.
func (r *RedisRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return errors.New("auth: revoke: empty token id")
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		// already expired; Verify rejects it without a lookup
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: revoking token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was revoked. Lookup errors are returned
// so the gate can fail closed.
func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("auth: checking revocation: %w", err)
	}
	return n > 0, nil
}

// NoRevocations is used when Redis is not configured: logout succeeds but
// tokens stay valid until they expire.
type NoRevocations struct{}

var _ RevocationStore = NoRevocations{}

func (NoRevocations) Revoke(context.Context, string, time.Time) error { return nil }

func (NoRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }
