package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for the movement ledger.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	ListArchived(ctx context.Context) ([]Entry, error)
	FindByID(ctx context.Context, id string) (Entry, error)
	Create(ctx context.Context, entry Entry) (Entry, error)
	Update(ctx context.Context, entry Entry) (Entry, error)
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

const entryColumns = `id, product_name, type, quantity, date, notes, deleted_at, created_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ProductName, &e.Type, &e.Quantity, &e.Date, &e.Notes, &e.DeletedAt, &e.CreatedAt)
	return e, err
}

func (r *repository) queryMany(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query: %w", err)
	}
	defer rows.Close()

	result := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("warehouse: scan: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Entry, error) {
	return r.queryMany(ctx,
		`SELECT `+entryColumns+` FROM warehouse_entries WHERE deleted_at IS NULL ORDER BY date DESC`)
}

func (r *repository) ListArchived(ctx context.Context) ([]Entry, error) {
	return r.queryMany(ctx,
		`SELECT `+entryColumns+` FROM warehouse_entries WHERE deleted_at IS NOT NULL ORDER BY deleted_at DESC`)
}

func (r *repository) FindByID(ctx context.Context, id string) (Entry, error) {
	return scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM warehouse_entries WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, entry Entry) (Entry, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO warehouse_entries (id, product_name, type, quantity, date, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+entryColumns,
		entry.ID, entry.ProductName, entry.Type, entry.Quantity, entry.Date, entry.Notes, time.Now())
	return scanEntry(row)
}

func (r *repository) Update(ctx context.Context, entry Entry) (Entry, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE warehouse_entries SET product_name = $1, type = $2, quantity = $3, date = $4, notes = $5
		 WHERE id = $6
		 RETURNING `+entryColumns,
		entry.ProductName, entry.Type, entry.Quantity, entry.Date, entry.Notes, entry.ID)
	return scanEntry(row)
}

func (r *repository) Archive(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE warehouse_entries SET deleted_at = $1 WHERE id = $2`, at, id)
	return err
}

func (r *repository) Restore(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE warehouse_entries SET deleted_at = NULL WHERE id = $1`, id)
	return err
}
