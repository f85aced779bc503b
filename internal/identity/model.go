package identity

import "time"

// User is a login account. Staff profiles (receptionist, veterinarian) hang
// off a user; owners never do.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"telefono,omitempty"`
	IsStaff      bool      `json:"-"`
	IsSuperuser  bool      `json:"-"`
	IsActive     bool      `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
