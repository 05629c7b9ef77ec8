package products

// CreateForm declares the field rules for a new product.
type CreateForm struct {
	Name       string  `json:"name" validate:"required" label:"Nama produk"`
	SKU        string  `json:"sku" validate:"required" label:"SKU produk"`
	CategoryID *string `json:"categoryId"`
	UnitID     *string `json:"unitId"`
	Type       string  `json:"type"`
	CostPrice  int64   `json:"costPrice" validate:"gte=0" label:"Harga beli"`
	Price      int64   `json:"price" validate:"gte=0" label:"Harga jual"`
	Stock      int     `json:"stock" validate:"gte=0" label:"Stok"`
}

// UpdateForm declares the field rules for product changes. Nil numeric fields
// keep their stored value; empty strings do too.
type UpdateForm struct {
	Name       string  `json:"name" label:"Nama produk"`
	SKU        string  `json:"sku" label:"SKU produk"`
	CategoryID *string `json:"categoryId"`
	UnitID     *string `json:"unitId"`
	Type       string  `json:"type"`
	CostPrice  *int64  `json:"costPrice" validate:"omitempty,gte=0" label:"Harga beli"`
	Price      *int64  `json:"price" validate:"omitempty,gte=0" label:"Harga jual"`
	Stock      *int    `json:"stock" validate:"omitempty,gte=0" label:"Stok"`
}
