package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aegis-iam/aegis/internal/shared"
)

// TokenStore is the server-side registry for opaque session tokens.
// Tokens carry no claims; validity is a Redis lookup. Expiry is
// handled by the key TTL, revocation by deletion.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue mints a fresh token bound to the user. UUIDv4 gives 122 bits
// of randomness, enough for uniqueness across concurrent logins.
func (ts *TokenStore) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := ts.client.Set(ctx, tokenKey(token), userID, ts.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user ID a live token is bound to.
func (ts *TokenStore) Resolve(ctx context.Context, token string) (int64, error) {
	raw, err := ts.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, shared.ErrInvalidCredentials
		}
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, shared.ErrInvalidCredentials
	}
	return id, nil
}

// Revoke deletes a token. Revoking an unknown token is a no-op.
func (ts *TokenStore) Revoke(ctx context.Context, token string) error {
	if err := ts.client.Del(ctx, tokenKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// TTL exposes the configured token lifetime.
func (ts *TokenStore) TTL() time.Duration {
	return ts.ttl
}

func tokenKey(token string) string {
	return "token:" + token
}
