package auth

import (
	"context"
	"time"

	"sigeu/internal/cache"
)

const (
	revokedTokenKeyPrefix = "blacklist:access_token:"
	usedResetKeyPrefix    = "used:reset_token:"
)

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
	ConsumeResetToken(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	ReleaseResetToken(ctx context.Context, tokenID string) error
}

// TokenStore keeps revoked session ids and consumed reset ids in Redis.
// Without Redis nothing is ever revoked or consumed.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// BlacklistAccessToken adds a session token id to the denylist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if a session token id is on the denylist.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, revokedTokenKeyPrefix+tokenID), nil
}

// ConsumeResetToken marks a reset token id as used. It reports false when the
// id was already consumed.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	if ttl <= 0 {
		ttl = ResetTokenExpiry
	}
	return s.cache.SetNX(ctx, usedResetKeyPrefix+tokenID, []byte("1"), ttl)
}

// ReleaseResetToken undoes ConsumeResetToken so the id can be presented again.
func (s *TokenStore) ReleaseResetToken(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return nil
	}
	return s.cache.Delete(ctx, usedResetKeyPrefix+tokenID)
}
