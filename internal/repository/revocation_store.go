package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationStore tracks refresh token JTIs revoked before their natural
// expiry. Entries carry a TTL matching the remaining token lifetime, so the
// denylist stays bounded.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type revocationStore struct {
	client *redis.Client
}

// NewRevocationStore instantiates the Redis-backed store.
func NewRevocationStore(client *redis.Client) RevocationStore {
	return &revocationStore{client: client}
}

func (s *revocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (s *revocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	count, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
