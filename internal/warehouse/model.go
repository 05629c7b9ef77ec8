package warehouse

import "time"

// Movement directions for stock entering or leaving the warehouse.
const (
	TypeIn  = "masuk"
	TypeOut = "keluar"
)

// Entry is a single movement in the warehouse ledger.
type Entry struct {
	ID          string     `json:"id"`
	ProductName string     `json:"productName"`
	Type        string     `json:"type"`
	Quantity    int        `json:"quantity"`
	Date        time.Time  `json:"date"`
	Notes       *string    `json:"notes"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Archived reports whether the entry is soft deleted.
func (e Entry) Archived() bool {
	return e.DeletedAt != nil
}
