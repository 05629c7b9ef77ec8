package users

// CreateForm declares the field rules for a new account.
type CreateForm struct {
	Name     string `json:"name" validate:"required" label:"Nama"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required,min=6" label:"Kata sandi"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user manager" label:"Role"`
}

// UpdateForm declares the field rules for account changes. Empty fields keep
// their stored value.
type UpdateForm struct {
	Name     string `json:"name" label:"Nama"`
	Email    string `json:"email" validate:"omitempty,email" label:"Email"`
	Password string `json:"password" validate:"omitempty,min=6" label:"Kata sandi"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user manager" label:"Role"`
}
