package permissions

import (
	"context"
	"strings"
)

// Service handles permission business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreatePermission inserts a new permission.
func (s *Service) CreatePermission(ctx context.Context, name, description string) (Permission, error) {
	return s.repo.CreatePermission(ctx, strings.TrimSpace(name), strings.TrimSpace(description))
}

// GetPermission fetches a permission by ID.
func (s *Service) GetPermission(ctx context.Context, id int64) (Permission, error) {
	return s.repo.GetPermission(ctx, id)
}

// ListPermissions returns all permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// UpdatePermission updates an existing permission, identity preserved.
func (s *Service) UpdatePermission(ctx context.Context, id int64, name, description string) (Permission, error) {
	return s.repo.UpdatePermission(ctx, id, strings.TrimSpace(name), strings.TrimSpace(description))
}

// DeletePermission removes a permission by ID.
func (s *Service) DeletePermission(ctx context.Context, id int64) error {
	return s.repo.DeletePermission(ctx, id)
}
