package users

import "time"

// User represents an account record.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// Roles accepted for an account.
const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleManager = "manager"
)

// PublicUser is the projection returned to clients. The password hash is
// never serialized.
type PublicUser struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Public strips credentials from the account record.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
