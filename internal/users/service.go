package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// Service handles user business logic and role grants.
type Service struct {
	repo       RepositoryPort
	bcryptCost int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// CreateUser hashes the password and inserts a new user.
func (s *Service) CreateUser(ctx context.Context, username, password string, enabled bool) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.CreateUser(ctx, strings.TrimSpace(username), string(hash), enabled)
}

// GetUser fetches a user with their role set. User row and role set
// are loaded concurrently.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	var (
		user      User
		userRoles []RoleRef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.repo.GetUser(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		userRoles, err = s.repo.ListUserRoles(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return User{}, err
	}
	user.Roles = userRoles
	return user, nil
}

// ListUsers returns all users with their role sets.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUser updates a user in place. An empty password keeps the
// stored hash; a non-empty one is rehashed.
func (s *Service) UpdateUser(ctx context.Context, id int64, username, password string, enabled bool) (User, error) {
	var hash string
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return User{}, err
		}
		hash = string(hashed)
	}
	user, err := s.repo.UpdateUser(ctx, id, strings.TrimSpace(username), hash, enabled)
	if err != nil {
		return User{}, err
	}
	userRoles, err := s.repo.ListUserRoles(ctx, id)
	if err != nil {
		return User{}, err
	}
	user.Roles = userRoles
	return user, nil
}

// DeleteUser removes a user by ID.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

// FindByUsername fetches a user by exact, case-sensitive username.
func (s *Service) FindByUsername(ctx context.Context, username string) (User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	userRoles, err := s.repo.ListUserRoles(ctx, user.ID)
	if err != nil {
		return User{}, err
	}
	user.Roles = userRoles
	return user, nil
}

// AddRole grants a role to a user and returns the updated user.
// Granting an already-held role is a no-op.
func (s *Service) AddRole(ctx context.Context, userID, roleID int64) (User, error) {
	if err := s.repo.GrantRole(ctx, userID, roleID); err != nil {
		return User{}, err
	}
	return s.GetUser(ctx, userID)
}

// RemoveRole revokes a role from a user and returns the updated user.
// Revoking a role the user does not hold is a no-op.
func (s *Service) RemoveRole(ctx context.Context, userID, roleID int64) (User, error) {
	if err := s.repo.RevokeRole(ctx, userID, roleID); err != nil {
		return User{}, err
	}
	return s.GetUser(ctx, userID)
}
