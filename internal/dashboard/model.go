package dashboard

import "time"

// Summary is the landing-page aggregate.
type Summary struct {
	TotalProducts      int64                `json:"totalProducts"`
	TodaySales         int64                `json:"todaySales"`
	LatestTransactions []TransactionSummary `json:"latestTransactions"`
}

// TransactionSummary is the compact sale projection shown on the dashboard.
type TransactionSummary struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	TotalPayment int64     `json:"totalPayment"`
	TotalItems   int       `json:"totalItems"`
	Profit       int64     `json:"profit"`
	CreatedAt    time.Time `json:"createdAt"`
}
