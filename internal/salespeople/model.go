package salespeople

import "time"

// SalesPerson is a member of the sales staff. Archived rows keep their data
// and carry a DeletedAt stamp.
type SalesPerson struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	Products  string     `json:"products"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Archived reports whether the record is soft deleted.
func (s SalesPerson) Archived() bool {
	return s.DeletedAt != nil
}
