package veterinarians

// CreateVeterinarianRequest creates the login account and profile together.
// Working hours default to 09:00-14:00 when omitted.
type CreateVeterinarianRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Name      *string `json:"nombre" validate:"omitempty,min=1"`
	WorkStart *string `json:"work_start" validate:"omitempty,len=5"`
	WorkEnd   *string `json:"work_end" validate:"omitempty,len=5"`
	WorkDays  *string `json:"work_days" validate:"omitempty,max=100"`
}

// UpdateVeterinarianRequest applies partial changes to the profile and its
// linked account.
type UpdateVeterinarianRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	Name      *string `json:"nombre" validate:"omitempty,min=1"`
	WorkStart *string `json:"work_start" validate:"omitempty,len=5"`
	WorkEnd   *string `json:"work_end" validate:"omitempty,len=5"`
	WorkDays  *string `json:"work_days" validate:"omitempty,max=100"`
}
