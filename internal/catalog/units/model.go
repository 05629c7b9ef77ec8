package units

import "time"

// Unit is a unit of measure attached to products (pcs, box, kg).
type Unit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateForm declares the field rules for a new unit.
type CreateForm struct {
	Name string `json:"name" validate:"required" label:"Nama satuan"`
}
