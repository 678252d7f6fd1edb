package roles

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aegis-iam/aegis/internal/permissions"
	"github.com/aegis-iam/aegis/internal/shared"
)

type memoryRolesRepo struct {
	roles  map[int64]Role
	perms  map[int64]permissions.Permission
	edges  map[int64]map[int64]struct{}
	nextID int64
}

func newMemoryRolesRepo() *memoryRolesRepo {
	return &memoryRolesRepo{
		roles: make(map[int64]Role),
		perms: make(map[int64]permissions.Permission),
		edges: make(map[int64]map[int64]struct{}),
	}
}

func (r *memoryRolesRepo) addPermissionRecord(name, description string) permissions.Permission {
	r.nextID++
	p := permissions.Permission{ID: r.nextID, Name: name, Description: description}
	r.perms[p.ID] = p
	return p
}

func (r *memoryRolesRepo) CreateRole(ctx context.Context, name, description string) (Role, error) {
	for _, existing := range r.roles {
		if existing.Name == name {
			return Role{}, shared.ErrDuplicateName
		}
	}
	r.nextID++
	role := Role{ID: r.nextID, Name: name, Description: description, Permissions: []permissions.Permission{}}
	r.roles[role.ID] = role
	r.edges[role.ID] = make(map[int64]struct{})
	return role, nil
}

func (r *memoryRolesRepo) GetRole(ctx context.Context, id int64) (Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	return role, nil
}

func (r *memoryRolesRepo) ListRoles(ctx context.Context) ([]Role, error) {
	out := make([]Role, 0, len(r.roles))
	for id, role := range r.roles {
		perms, _ := r.ListRolePermissions(ctx, id)
		role.Permissions = perms
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRolesRepo) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	for otherID, other := range r.roles {
		if otherID != id && other.Name == name {
			return Role{}, shared.ErrDuplicateName
		}
	}
	role.Name = name
	role.Description = description
	r.roles[id] = role
	return role, nil
}

func (r *memoryRolesRepo) DeleteRole(ctx context.Context, id int64) error {
	if _, ok := r.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.roles, id)
	delete(r.edges, id)
	return nil
}

func (r *memoryRolesRepo) ListRolePermissions(ctx context.Context, roleID int64) ([]permissions.Permission, error) {
	out := make([]permissions.Permission, 0)
	for permID := range r.edges[roleID] {
		out = append(out, r.perms[permID])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRolesRepo) AttachPermission(ctx context.Context, roleID, permissionID int64) error {
	if _, ok := r.roles[roleID]; !ok {
		return shared.ErrNotFound
	}
	if _, ok := r.perms[permissionID]; !ok {
		return shared.ErrNotFound
	}
	r.edges[roleID][permissionID] = struct{}{}
	return nil
}

func (r *memoryRolesRepo) DetachPermission(ctx context.Context, roleID, permissionID int64) error {
	if _, ok := r.roles[roleID]; !ok {
		return shared.ErrNotFound
	}
	delete(r.edges[roleID], permissionID)
	return nil
}

var _ RepositoryPort = (*memoryRolesRepo)(nil)

func TestRoleCRUD(t *testing.T) {
	repo := newMemoryRolesRepo()
	service := NewService(repo)
	ctx := context.Background()

	role, err := service.CreateRole(ctx, "VIEWER", "Read-only access")
	require.NoError(t, err)
	require.Equal(t, "VIEWER", role.Name)
	require.Empty(t, role.Permissions)

	got, err := service.GetRole(ctx, role.ID)
	require.NoError(t, err)
	require.Equal(t, role.ID, got.ID)

	updated, err := service.UpdateRole(ctx, role.ID, "AUDITOR", "Audit access")
	require.NoError(t, err)
	require.Equal(t, role.ID, updated.ID)
	require.Equal(t, "AUDITOR", updated.Name)

	require.NoError(t, service.DeleteRole(ctx, role.ID))
	_, err = service.GetRole(ctx, role.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRoleNotFound(t *testing.T) {
	service := NewService(newMemoryRolesRepo())
	ctx := context.Background()

	_, err := service.GetRole(ctx, 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
	_, err = service.UpdateRole(ctx, 99, "X", "")
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.ErrorIs(t, service.DeleteRole(ctx, 99), shared.ErrNotFound)
}

func TestCreateRoleDuplicateName(t *testing.T) {
	repo := newMemoryRolesRepo()
	service := NewService(repo)
	ctx := context.Background()

	_, err := service.CreateRole(ctx, "VIEWER", "")
	require.NoError(t, err)
	_, err = service.CreateRole(ctx, "VIEWER", "second attempt")
	require.ErrorIs(t, err, shared.ErrDuplicateName)

	list, err := service.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAddPermissionIdempotent(t *testing.T) {
	repo := newMemoryRolesRepo()
	service := NewService(repo)
	ctx := context.Background()

	perm := repo.addPermissionRecord("READ", "Read access")
	role, err := service.CreateRole(ctx, "VIEWER", "")
	require.NoError(t, err)

	first, err := service.AddPermission(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	require.Len(t, first.Permissions, 1)

	second, err := service.AddPermission(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	require.Len(t, second.Permissions, 1, "re-attaching must not grow the set")
}

func TestAddPermissionMissingEndpoints(t *testing.T) {
	repo := newMemoryRolesRepo()
	service := NewService(repo)
	ctx := context.Background()

	perm := repo.addPermissionRecord("READ", "")
	role, err := service.CreateRole(ctx, "VIEWER", "")
	require.NoError(t, err)

	_, err = service.AddPermission(ctx, 999, perm.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	_, err = service.AddPermission(ctx, role.ID, 999)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRemovePermissionNonMemberIsNoop(t *testing.T) {
	repo := newMemoryRolesRepo()
	service := NewService(repo)
	ctx := context.Background()

	perm := repo.addPermissionRecord("READ", "")
	role, err := service.CreateRole(ctx, "VIEWER", "")
	require.NoError(t, err)

	got, err := service.RemovePermission(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	require.Empty(t, got.Permissions)

	_, err = service.RemovePermission(ctx, 999, perm.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRolePermissionLifecycle(t *testing.T) {
	repo := newMemoryRolesRepo()
	service := NewService(repo)
	ctx := context.Background()

	perm := repo.addPermissionRecord("READ", "Read access")
	role, err := service.CreateRole(ctx, "VIEWER", "Read-only users")
	require.NoError(t, err)

	withPerm, err := service.AddPermission(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	require.Len(t, withPerm.Permissions, 1)
	require.Equal(t, "READ", withPerm.Permissions[0].Name)

	withoutPerm, err := service.RemovePermission(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	require.Empty(t, withoutPerm.Permissions)
}
