package receptionists

// CreateReceptionistRequest creates the login account and the profile
// together. Admin only.
type CreateReceptionistRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     *string `json:"nombre,omitempty" validate:"omitempty,max=255"`
	Phone    *string `json:"telefono,omitempty" validate:"omitempty,max=50"`
}

// UpdateReceptionistRequest applies partial changes to the profile and its
// linked account.
type UpdateReceptionistRequest struct {
	Name     *string `json:"nombre,omitempty" validate:"omitempty,max=255"`
	Phone    *string `json:"telefono,omitempty" validate:"omitempty,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}
