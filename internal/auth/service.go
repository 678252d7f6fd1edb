package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/aegis-iam/aegis/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates username/password credentials and issues a token.
// Missing user, disabled account and password mismatch all fail the
// same way so the response does not reveal which part was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, shared.ErrInvalidCredentials
	}
	if !user.Enabled {
		return LoginResult{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, shared.ErrInvalidCredentials
	}
	roleNames, err := s.repo.ListRoleNames(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, Username: user.Username, RoleNames: roleNames}, nil
}

// Logout revokes the presented token in the registry, so the token is
// invalid for every client holding it, not just the caller.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, token)
}

// ResolvePrincipal maps a live token to the caller's identity and
// role set. Disabled accounts fail resolution even with a live token.
func (s *Service) ResolvePrincipal(ctx context.Context, token string) (*shared.Principal, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.Enabled {
		return nil, shared.ErrInvalidCredentials
	}
	roleNames, err := s.repo.ListRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &shared.Principal{UserID: user.ID, Username: user.Username, Roles: roleNames}, nil
}
