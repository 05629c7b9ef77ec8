package products

import "time"

// Product is a sellable catalog item. Stock is mutated only by the checkout
// workflow (sale decrement, restore increment); the warehouse ledger never
// touches it.
type Product struct {
	ID         string     `json:"id"`
	SKU        string     `json:"sku"`
	Name       string     `json:"name"`
	CategoryID *string    `json:"categoryId"`
	UnitID     *string    `json:"unitId"`
	Type       string     `json:"type"`
	CostPrice  int64      `json:"costPrice"`
	Price      int64      `json:"price"`
	Stock      int        `json:"stock"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`

	Category *Reference `json:"category,omitempty"`
	Unit     *Reference `json:"unit,omitempty"`
}

// Reference is the embedded category/unit detail returned with a product.
type Reference struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Archived reports whether the product is in the archive.
func (p Product) Archived() bool { return p.DeletedAt != nil }
