package reports

import (
	"context"
	"time"

	"github.com/kasira/kasira/internal/shared/apperr"
)

// Service computes the sales report over the standard windows.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Build sums revenue and profit over the last 1, 7, 30 and 365 days.
func (s *Service) Build(ctx context.Context) (Report, error) {
	now := time.Now()

	var report Report
	windows := []struct {
		days int
		dest *PeriodSum
	}{
		{1, &report.Daily},
		{7, &report.Weekly},
		{30, &report.Monthly},
		{365, &report.Yearly},
	}
	for _, w := range windows {
		sum, err := s.repo.SumSince(ctx, now.AddDate(0, 0, -w.days))
		if err != nil {
			return Report{}, apperr.Internal(err)
		}
		*w.dest = sum
	}
	return report, nil
}
