package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/aegis-iam/aegis/internal/auth"
	"github.com/aegis-iam/aegis/internal/shared"
)

func newTokenStore(t *testing.T) (*auth.TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return auth.NewTokenStore(client, time.Hour), mr
}

func TestTokenIssueResolve(t *testing.T) {
	ts, _ := newTokenStore(t)
	ctx := context.Background()

	token, err := ts.Issue(ctx, 42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	userID, err := ts.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestTokenUniqueness(t *testing.T) {
	ts, _ := newTokenStore(t)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := ts.Issue(ctx, int64(i))
		if err != nil {
			t.Fatalf("issue %d: %v", i, err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("token %q issued twice", token)
		}
		seen[token] = struct{}{}
	}
}

func TestTokenRevoke(t *testing.T) {
	ts, _ := newTokenStore(t)
	ctx := context.Background()

	token, err := ts.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := ts.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := ts.Resolve(ctx, token); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after revoke, got %v", err)
	}
	// Revoking again is a no-op.
	if err := ts.Revoke(ctx, token); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	ts, mr := newTokenStore(t)
	ctx := context.Background()

	token, err := ts.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	mr.FastForward(2 * time.Hour)
	if _, err := ts.Resolve(ctx, token); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after expiry, got %v", err)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	ts, _ := newTokenStore(t)
	if _, err := ts.Resolve(context.Background(), "not-a-token"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
