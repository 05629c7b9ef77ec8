package categories

import "time"

// Category groups products for filtering and reporting.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateForm declares the field rules for a new category.
type CreateForm struct {
	Name string `json:"name" validate:"required" label:"Nama kategori"`
}
