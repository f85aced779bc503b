package owners

// RegisterRequest is the anonymous self-registration payload. It creates a
// login account and a standalone owner record in one step.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     *string `json:"nombre" validate:"omitempty,min=1"`
	Phone    *string `json:"telefono" validate:"omitempty,max=30"`
}

// CreateOwnerRequest is the staff-side create payload.
type CreateOwnerRequest struct {
	Name  *string `json:"nombre" validate:"omitempty,min=1"`
	Phone *string `json:"telefono" validate:"omitempty,max=30"`
}

// UpdateOwnerRequest applies partial changes to a record.
type UpdateOwnerRequest struct {
	Name  *string `json:"nombre" validate:"omitempty,min=1"`
	Phone *string `json:"telefono" validate:"omitempty,max=30"`
}
