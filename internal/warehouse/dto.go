package warehouse

// CreateForm carries a new ledger movement. Quantity is a float so that
// fractional JSON numbers can be detected and rejected instead of being
// truncated during decoding.
type CreateForm struct {
	ProductName string   `json:"productName"`
	Type        string   `json:"type"`
	Quantity    *float64 `json:"quantity"`
	Date        string   `json:"date"`
	Notes       *string  `json:"notes"`
}

// UpdateForm carries changes to an entry. Nil fields keep the stored value.
type UpdateForm struct {
	ProductName string   `json:"productName"`
	Type        string   `json:"type"`
	Quantity    *float64 `json:"quantity"`
	Date        string   `json:"date"`
	Notes       *string  `json:"notes"`
}
