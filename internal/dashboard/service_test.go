package dashboard

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	calls  int
	total  int64
	sales  int64
	latest []TransactionSummary
}

func (m *mockRepository) CountProducts(ctx context.Context) (int64, error) {
	m.calls++
	return m.total, nil
}

func (m *mockRepository) SumSalesSince(ctx context.Context, since time.Time) (int64, error) {
	return m.sales, nil
}

func (m *mockRepository) LatestTransactions(ctx context.Context, limit int) ([]TransactionSummary, error) {
	if limit < len(m.latest) {
		return m.latest[:limit], nil
	}
	return m.latest, nil
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSummaryAggregates(t *testing.T) {
	repo := &mockRepository{
		total: 12,
		sales: 45000,
		latest: []TransactionSummary{
			{ID: "t1", Code: "TRX-1002", TotalPayment: 3000},
			{ID: "t2", Code: "TRX-1001", TotalPayment: 42000},
		},
	}
	_, client := newTestCache(t)
	svc := NewService(slog.Default(), repo, client, 15*time.Second)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(12), summary.TotalProducts)
	require.Equal(t, int64(45000), summary.TodaySales)
	require.Len(t, summary.LatestTransactions, 2)
}

func TestSummaryServedFromCache(t *testing.T) {
	repo := &mockRepository{total: 12}
	_, client := newTestCache(t)
	svc := NewService(slog.Default(), repo, client, 15*time.Second)
	ctx := context.Background()

	_, err := svc.Summary(ctx)
	require.NoError(t, err)
	_, err = svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)
}

func TestSummaryCacheExpires(t *testing.T) {
	repo := &mockRepository{total: 12}
	mr, client := newTestCache(t)
	svc := NewService(slog.Default(), repo, client, 15*time.Second)
	ctx := context.Background()

	_, err := svc.Summary(ctx)
	require.NoError(t, err)

	mr.FastForward(16 * time.Second)

	_, err = svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestSummaryWorksWithoutCache(t *testing.T) {
	repo := &mockRepository{total: 3}
	svc := NewService(slog.Default(), repo, nil, 0)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), summary.TotalProducts)
}
