package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aegis-iam/aegis/internal/platform/db"
	"github.com/aegis-iam/aegis/internal/shared"
)

// RepositoryPort defines data access methods for users and their role
// grants.
type RepositoryPort interface {
	CreateUser(ctx context.Context, username, passwordHash string, enabled bool) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int64, username, passwordHash string, enabled bool) (User, error)
	DeleteUser(ctx context.Context, id int64) error
	FindByUsername(ctx context.Context, username string) (User, error)
	ListUserRoles(ctx context.Context, userID int64) ([]RoleRef, error)
	GrantRole(ctx context.Context, userID, roleID int64) error
	RevokeRole(ctx context.Context, userID, roleID int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a new user with the given password hash.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string, enabled bool) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, enabled) VALUES ($1, $2, $3)
		 RETURNING id, username, password_hash, enabled`,
		username, passwordHash, enabled,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Enabled)
	if err != nil {
		return User{}, mapPGError(err)
	}
	u.Roles = []RoleRef{}
	return u, nil
}

// GetUser fetches a user row by ID without its role set.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, enabled FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Enabled)
	if err != nil {
		return User{}, mapPGError(err)
	}
	return u, nil
}

// ListUsers returns all users ordered by id, role sets included.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, username, password_hash, enabled FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Enabled); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		userRoles, err := r.ListUserRoles(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Roles = userRoles
	}
	return out, nil
}

// UpdateUser updates a user in place. An empty passwordHash keeps the
// stored hash.
func (r *Repository) UpdateUser(ctx context.Context, id int64, username, passwordHash string, enabled bool) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		    SET username = $2,
		        password_hash = CASE WHEN $3 = '' THEN password_hash ELSE $3 END,
		        enabled = $4
		  WHERE id = $1
		 RETURNING id, username, password_hash, enabled`,
		id, username, passwordHash, enabled,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Enabled)
	if err != nil {
		return User{}, mapPGError(err)
	}
	return u, nil
}

// DeleteUser removes a user. Role grants cascade via schema constraints.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByUsername fetches a user by exact username match.
func (r *Repository) FindByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, enabled FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Enabled)
	if err != nil {
		return User{}, mapPGError(err)
	}
	return u, nil
}

// ListUserRoles returns the user's role set ordered by id.
func (r *Repository) ListUserRoles(ctx context.Context, userID int64) ([]RoleRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.name, r.description
		   FROM roles r
		   JOIN user_roles ur ON ur.role_id = r.id
		  WHERE ur.user_id = $1
		  ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoleRef, 0)
	for rows.Next() {
		var ref RoleRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Description); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GrantRole writes a user-role edge inside one transaction. Both
// endpoints must exist; re-granting an existing role is a no-op.
func (r *Repository) GrantRole(ctx context.Context, userID, roleID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := rowExists(ctx, tx, `SELECT 1 FROM users WHERE id = $1`, userID); err != nil {
			return err
		}
		if err := rowExists(ctx, tx, `SELECT 1 FROM roles WHERE id = $1`, roleID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, roleID,
		)
		return err
	})
}

// RevokeRole removes a user-role edge. The user must exist; revoking a
// role the user does not hold is a no-op.
func (r *Repository) RevokeRole(ctx context.Context, userID, roleID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := rowExists(ctx, tx, `SELECT 1 FROM users WHERE id = $1`, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`,
			userID, roleID,
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
