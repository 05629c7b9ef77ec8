package salespeople

// CreateForm declares the field rules for new sales staff.
type CreateForm struct {
	Name     string `json:"name" validate:"required" label:"Nama sales"`
	Phone    string `json:"phone" validate:"omitempty,phonechars" label:"Nomor telepon"`
	Company  string `json:"company"`
	Products string `json:"products"`
}

// UpdateForm declares the field rules for changes. Nil fields keep the
// stored value; the empty string clears optional fields.
type UpdateForm struct {
	Name     string  `json:"name" label:"Nama sales"`
	Phone    *string `json:"phone" validate:"omitempty,phonechars" label:"Nomor telepon"`
	Company  *string `json:"company"`
	Products *string `json:"products"`
}
