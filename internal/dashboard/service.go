package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kasira/kasira/internal/shared/apperr"
)

const (
	cacheKey    = "dashboard:summary"
	latestCount = 5
)

// Service assembles the dashboard summary, serving it from Redis for a short
// TTL so the landing page does not hammer the database.
type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *redis.Client
	ttl    time.Duration
}

// NewService constructs a Service. A nil cache disables caching.
func NewService(logger *slog.Logger, repo Repository, cache *redis.Client, ttl time.Duration) *Service {
	return &Service{logger: logger, repo: repo, cache: cache, ttl: ttl}
}

// Summary returns the aggregates, cached. Cache failures fall through to the
// database.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	totalProducts, err := s.repo.CountProducts(ctx)
	if err != nil {
		return Summary{}, apperr.Internal(err)
	}
	todaySales, err := s.repo.SumSalesSince(ctx, midnight)
	if err != nil {
		return Summary{}, apperr.Internal(err)
	}
	latest, err := s.repo.LatestTransactions(ctx, latestCount)
	if err != nil {
		return Summary{}, apperr.Internal(err)
	}

	summary := Summary{
		TotalProducts:      totalProducts,
		TodaySales:         todaySales,
		LatestTransactions: latest,
	}
	s.store(ctx, summary)
	return summary, nil
}

func (s *Service) fromCache(ctx context.Context) (Summary, bool) {
	if s.cache == nil {
		return Summary{}, false
	}
	raw, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return Summary{}, false
	}
	return summary, true
}

func (s *Service) store(ctx context.Context, summary Summary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
	}
}
