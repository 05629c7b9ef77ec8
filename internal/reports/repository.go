package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository sums sales over a window. Archived transactions are excluded.
type Repository interface {
	SumSince(ctx context.Context, since time.Time) (PeriodSum, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) SumSince(ctx context.Context, since time.Time) (PeriodSum, error) {
	var sum PeriodSum
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_payment), 0), COALESCE(SUM(profit), 0)
		 FROM transactions
		 WHERE deleted_at IS NULL AND created_at >= $1`, since,
	).Scan(&sum.TotalPayment, &sum.Profit)
	return sum, err
}
