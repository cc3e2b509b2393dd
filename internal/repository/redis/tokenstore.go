package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/attrigo/asapp/internal/domain"
)

const (
	accessKeyPrefix  = "session:access:"
	refreshKeyPrefix = "session:refresh:"

	// minTTL floors every marker's lifetime so saving a token that expires
	// within the current second never silently no-ops.
	minTTL = time.Second
)

// TokenStore implements repository.TokenStore using Redis. Keys are pure
// existence markers whose TTL tracks the token's own expiry, so the store
// converges on the repository without explicit cleanup.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a new Redis-backed token store.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Save inserts existence markers for both tokens of the pair.
func (s *TokenStore) Save(ctx context.Context, pair domain.TokenPair) error {
	now := time.Now().UTC()

	if err := s.client.Set(ctx, accessKeyPrefix+pair.Access.Value, "1", markerTTL(pair.Access, now)).Err(); err != nil {
		return &domain.TokenStoreError{Op: "save access marker", Err: err}
	}

	if err := s.client.Set(ctx, refreshKeyPrefix+pair.Refresh.Value, "1", markerTTL(pair.Refresh, now)).Err(); err != nil {
		return &domain.TokenStoreError{Op: "save refresh marker", Err: err}
	}

	return nil
}

// AccessTokenExists reports whether the encoded access token is live.
func (s *TokenStore) AccessTokenExists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, accessKeyPrefix+token).Result()
	if err != nil {
		return false, &domain.TokenStoreError{Op: "check access marker", Err: err}
	}
	return n > 0, nil
}

// Delete removes both markers. Deleting an absent pair is not an error.
func (s *TokenStore) Delete(ctx context.Context, pair domain.TokenPair) error {
	keys := []string{
		accessKeyPrefix + pair.Access.Value,
		refreshKeyPrefix + pair.Refresh.Value,
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return &domain.TokenStoreError{Op: "delete markers", Err: err}
	}

	return nil
}

// markerTTL returns the token's remaining lifetime floored at one second.
func markerTTL(t domain.Token, now time.Time) time.Duration {
	ttl := t.TTL(now)
	if ttl < minTTL {
		return minTTL
	}
	return ttl
}
