package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aegis-iam/aegis/internal/permissions"
	"github.com/aegis-iam/aegis/internal/platform/db"
	"github.com/aegis-iam/aegis/internal/shared"
)

// RepositoryPort defines data access methods for roles and their
// permission assignments.
type RepositoryPort interface {
	CreateRole(ctx context.Context, name, description string) (Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, id int64, name, description string) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
	ListRolePermissions(ctx context.Context, roleID int64) ([]permissions.Permission, error)
	AttachPermission(ctx context.Context, roleID, permissionID int64) error
	DetachPermission(ctx context.Context, roleID, permissionID int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, name, description string) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id, name, description`,
		name, description,
	).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		return Role{}, mapPGError(err)
	}
	role.Permissions = []permissions.Permission{}
	return role, nil
}

// GetRole fetches a role row by ID without its permission set.
func (r *Repository) GetRole(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description FROM roles WHERE id = $1`, id,
	).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		return Role{}, mapPGError(err)
	}
	return role, nil
}

// ListRoles returns all roles ordered by id, permission sets included.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Role, 0)
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		perms, err := r.ListRolePermissions(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Permissions = perms
	}
	return out, nil
}

// UpdateRole updates name and description in place.
func (r *Repository) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`UPDATE roles SET name = $2, description = $3 WHERE id = $1 RETURNING id, name, description`,
		id, name, description,
	).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		return Role{}, mapPGError(err)
	}
	return role, nil
}

// DeleteRole removes a role. Join rows cascade via schema constraints.
func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListRolePermissions returns the role's permission set ordered by id.
func (r *Repository) ListRolePermissions(ctx context.Context, roleID int64) ([]permissions.Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.description
		   FROM permissions p
		   JOIN role_permissions rp ON rp.permission_id = p.id
		  WHERE rp.role_id = $1
		  ORDER BY p.id`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	perms := make([]permissions.Permission, 0)
	for rows.Next() {
		var p permissions.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// AttachPermission writes a role-permission edge inside one
// transaction. Both endpoints must exist; re-attaching an existing
// edge is a no-op.
func (r *Repository) AttachPermission(ctx context.Context, roleID, permissionID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := rowExists(ctx, tx, `SELECT 1 FROM roles WHERE id = $1`, roleID); err != nil {
			return err
		}
		if err := rowExists(ctx, tx, `SELECT 1 FROM permissions WHERE id = $1`, permissionID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			roleID, permissionID,
		)
		return err
	})
}

// DetachPermission removes a role-permission edge. The role must
// exist; detaching a non-member permission is a no-op.
func (r *Repository) DetachPermission(ctx context.Context, roleID, permissionID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := rowExists(ctx, tx, `SELECT 1 FROM roles WHERE id = $1`, roleID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`,
			roleID, permissionID,
		)
		return err
	})
}

func rowExists(ctx context.Context, tx pgx.Tx, query string, id int64) error {
	var one int
	if err := tx.QueryRow(ctx, query, id).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

func mapPGError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicateName
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
