package transactions

import "time"

// Transaction is a completed sale with its immutable line items.
type Transaction struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	TotalPayment int64      `json:"totalPayment"`
	Change       int64      `json:"change"`
	TotalItems   int        `json:"totalItems"`
	Profit       int64      `json:"profit"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Items        []Item     `json:"items"`
}

// Archived reports whether the sale is soft deleted.
func (t Transaction) Archived() bool {
	return t.DeletedAt != nil
}

// Item is one cart line. Price and subtotal are captured at sale time and
// never change with later product price edits.
type Item struct {
	ID            string       `json:"id"`
	TransactionID string       `json:"transactionId"`
	ProductID     string       `json:"productId"`
	Quantity      int          `json:"quantity"`
	Price         int64        `json:"price"`
	Subtotal      int64        `json:"subtotal"`
	Product       *ItemProduct `json:"product,omitempty"`
}

// ItemProduct is the product detail embedded in transaction responses.
type ItemProduct struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}
