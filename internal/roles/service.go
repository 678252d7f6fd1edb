package roles

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aegis-iam/aegis/internal/permissions"
)

// Service handles role business logic and permission assignment.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateRole inserts a new role with an empty permission set.
func (s *Service) CreateRole(ctx context.Context, name, description string) (Role, error) {
	return s.repo.CreateRole(ctx, strings.TrimSpace(name), strings.TrimSpace(description))
}

// GetRole fetches a role with its permission set. The role row and the
// permission set are loaded concurrently.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	var (
		role  Role
		perms []permissions.Permission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		role, err = s.repo.GetRole(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		perms, err = s.repo.ListRolePermissions(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return Role{}, err
	}
	role.Permissions = perms
	return role, nil
}

// ListRoles returns all roles with their permission sets.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// UpdateRole updates name and description, identity preserved.
func (s *Service) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	role, err := s.repo.UpdateRole(ctx, id, strings.TrimSpace(name), strings.TrimSpace(description))
	if err != nil {
		return Role{}, err
	}
	perms, err := s.repo.ListRolePermissions(ctx, id)
	if err != nil {
		return Role{}, err
	}
	role.Permissions = perms
	return role, nil
}

// DeleteRole removes a role by ID.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// AddPermission attaches a permission to a role and returns the
// updated role. Attaching an already-present permission is a no-op.
func (s *Service) AddPermission(ctx context.Context, roleID, permissionID int64) (Role, error) {
	if err := s.repo.AttachPermission(ctx, roleID, permissionID); err != nil {
		return Role{}, err
	}
	return s.GetRole(ctx, roleID)
}

// RemovePermission detaches a permission from a role and returns the
// updated role. Removing a non-member permission is a no-op.
func (s *Service) RemovePermission(ctx context.Context, roleID, permissionID int64) (Role, error) {
	if err := s.repo.DetachPermission(ctx, roleID, permissionID); err != nil {
		return Role{}, err
	}
	return s.GetRole(ctx, roleID)
}
