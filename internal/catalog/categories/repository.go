package categories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for categories.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id string) (Category, error)
	FindByName(ctx context.Context, name string) (Category, error)
	CountProducts(ctx context.Context, categoryID string) (int, error)
	Create(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("categories: list: %w", err)
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("categories: list scan: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) FindByID(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	return c, err
}

func (r *repository) FindByName(ctx context.Context, name string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE LOWER(name) = LOWER($1)`, name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	return c, err
}

func (r *repository) CountProducts(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("categories: count products: %w", err)
	}
	return count, nil
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3) RETURNING created_at`,
		category.ID, category.Name, time.Now(),
	).Scan(&category.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return category, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("categories: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
