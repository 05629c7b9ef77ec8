package salespeople

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for sales staff.
type Repository interface {
	List(ctx context.Context) ([]SalesPerson, error)
	ListArchived(ctx context.Context) ([]SalesPerson, error)
	FindByID(ctx context.Context, id string) (SalesPerson, error)
	FindActiveByName(ctx context.Context, name, excludeID string) (SalesPerson, error)
	FindActiveByPhone(ctx context.Context, phone, excludeID string) (SalesPerson, error)
	Create(ctx context.Context, person SalesPerson) (SalesPerson, error)
	Update(ctx context.Context, person SalesPerson) (SalesPerson, error)
	Archive(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const salesColumns = `id, name, phone, company, products, deleted_at, created_at`

func scanPerson(row pgx.Row) (SalesPerson, error) {
	var s SalesPerson
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Company, &s.Products, &s.DeletedAt, &s.CreatedAt)
	return s, err
}

func (r *repository) queryMany(ctx context.Context, query string, args ...any) ([]SalesPerson, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("salespeople: query: %w", err)
	}
	defer rows.Close()

	result := make([]SalesPerson, 0)
	for rows.Next() {
		s, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("salespeople: scan: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]SalesPerson, error) {
	return r.queryMany(ctx,
		`SELECT `+salesColumns+` FROM sales_people WHERE deleted_at IS NULL ORDER BY created_at DESC`)
}

func (r *repository) ListArchived(ctx context.Context) ([]SalesPerson, error) {
	return r.queryMany(ctx,
		`SELECT `+salesColumns+` FROM sales_people WHERE deleted_at IS NOT NULL ORDER BY deleted_at DESC`)
}

func (r *repository) FindByID(ctx context.Context, id string) (SalesPerson, error) {
	return scanPerson(r.pool.QueryRow(ctx,
		`SELECT `+salesColumns+` FROM sales_people WHERE id = $1`, id))
}

func (r *repository) FindActiveByName(ctx context.Context, name, excludeID string) (SalesPerson, error) {
	return scanPerson(r.pool.QueryRow(ctx,
		`SELECT `+salesColumns+` FROM sales_people
		 WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL AND id <> $2`, name, excludeID))
}

func (r *repository) FindActiveByPhone(ctx context.Context, phone, excludeID string) (SalesPerson, error) {
	return scanPerson(r.pool.QueryRow(ctx,
		`SELECT `+salesColumns+` FROM sales_people
		 WHERE phone = $1 AND deleted_at IS NULL AND id <> $2`, phone, excludeID))
}

func (r *repository) Create(ctx context.Context, person SalesPerson) (SalesPerson, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO sales_people (id, name, phone, company, products, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+salesColumns,
		person.ID, person.Name, person.Phone, person.Company, person.Products, time.Now())
	return scanPerson(row)
}

func (r *repository) Update(ctx context.Context, person SalesPerson) (SalesPerson, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE sales_people SET name = $1, phone = $2, company = $3, products = $4
		 WHERE id = $5
		 RETURNING `+salesColumns,
		person.Name, person.Phone, person.Company, person.Products, person.ID)
	return scanPerson(row)
}

func (r *repository) Archive(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE sales_people SET deleted_at = $1 WHERE id = $2`, at, id)
	return err
}

func (r *repository) Restore(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE sales_people SET deleted_at = NULL WHERE id = $1`, id)
	return err
}
