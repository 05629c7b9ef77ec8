package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the aggregate reads behind the dashboard. Archived rows
// are excluded everywhere so the numbers match the visible history.
type Repository interface {
	CountProducts(ctx context.Context) (int64, error)
	SumSalesSince(ctx context.Context, since time.Time) (int64, error)
	LatestTransactions(ctx context.Context, limit int) ([]TransactionSummary, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`).Scan(&count)
	return count, err
}

func (r *repository) SumSalesSince(ctx context.Context, since time.Time) (int64, error) {
	var sum int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_payment), 0) FROM transactions
		 WHERE deleted_at IS NULL AND created_at >= $1`, since).Scan(&sum)
	return sum, err
}

func (r *repository) LatestTransactions(ctx context.Context, limit int) ([]TransactionSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, total_payment, total_items, profit, created_at
		 FROM transactions
		 WHERE deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: latest transactions: %w", err)
	}
	defer rows.Close()

	result := make([]TransactionSummary, 0)
	for rows.Next() {
		var t TransactionSummary
		if err := rows.Scan(&t.ID, &t.Code, &t.TotalPayment, &t.TotalItems, &t.Profit, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("dashboard: scan: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
