package units

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for units.
type Repository interface {
	List(ctx context.Context) ([]Unit, error)
	FindByID(ctx context.Context, id string) (Unit, error)
	FindByName(ctx context.Context, name string) (Unit, error)
	CountProducts(ctx context.Context, unitID string) (int, error)
	Create(ctx context.Context, unit Unit) (Unit, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Unit, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM units ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("units: list: %w", err)
	}
	defer rows.Close()

	var result []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("units: list scan: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *repository) FindByID(ctx context.Context, id string) (Unit, error) {
	var u Unit
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM units WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	return u, err
}

func (r *repository) FindByName(ctx context.Context, name string) (Unit, error) {
	var u Unit
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM units WHERE LOWER(name) = LOWER($1)`, name,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	return u, err
}

func (r *repository) CountProducts(ctx context.Context, unitID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE unit_id = $1`, unitID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("units: count products: %w", err)
	}
	return count, nil
}

func (r *repository) Create(ctx context.Context, unit Unit) (Unit, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO units (id, name, created_at) VALUES ($1, $2, $3) RETURNING created_at`,
		unit.ID, unit.Name, time.Now(),
	).Scan(&unit.CreatedAt)
	if err != nil {
		return Unit{}, err
	}
	return unit, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("units: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
