package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRows signals an absent record to the service layer.
var ErrNoRows = pgx.ErrNoRows

// Repository defines persistence operations for account management.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string, excludeID string) (User, error)
	FindByName(ctx context.Context, name string, excludeID string) (User, error)
	FindLatestLogin(ctx context.Context) (User, error)
	CountAdmins(ctx context.Context) (int, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, email, password_hash, role, last_login_at, created_at`

func scan(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.LastLoginAt, &u.CreatedAt)
	return u, err
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	result := make([]User, 0)
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("users: list scan: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *repository) FindByID(ctx context.Context, id string) (User, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id))
}

func (r *repository) FindByEmail(ctx context.Context, email string, excludeID string) (User, error) {
	return scan(r.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM users WHERE email = $1 AND id <> $2`, email, excludeID))
}

func (r *repository) FindByName(ctx context.Context, name string, excludeID string) (User, error) {
	return scan(r.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM users WHERE name = $1 AND id <> $2`, name, excludeID))
}

func (r *repository) FindLatestLogin(ctx context.Context) (User, error) {
	return scan(r.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM users WHERE last_login_at IS NOT NULL ORDER BY last_login_at DESC LIMIT 1`))
}

func (r *repository) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, RoleAdmin).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("users: count admins: %w", err)
	}
	return count, nil
}

func (r *repository) Create(ctx context.Context, user User) (User, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, now,
	).Scan(&user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *repository) Update(ctx context.Context, user User) (User, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, password_hash = $3, role = $4 WHERE id = $5`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.ID)
	if err != nil {
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IsNoRows reports whether err is the absent-record sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
