package consultations

// CreateConsultationRequest books a consultation. The date defaults to today
// when omitted.
type CreateConsultationRequest struct {
	Reason         string  `json:"motivo" validate:"required,min=1"`
	Description    *string `json:"descripcion" validate:"omitempty"`
	Date           *string `json:"fecha" validate:"omitempty,len=10"`
	Time           *string `json:"hora" validate:"omitempty,len=5"`
	Symptoms       *string `json:"sintomas" validate:"omitempty"`
	Treatment      *string `json:"tratamiento" validate:"omitempty"`
	Attended       *bool   `json:"atendida"`
	PetID          *int64  `json:"mascota_id" validate:"omitempty,gt=0"`
	VeterinarianID int64   `json:"veterinario_id" validate:"required,gt=0"`
}

// UpdateConsultationRequest applies partial changes to a record.
type UpdateConsultationRequest struct {
	Reason         *string `json:"motivo" validate:"omitempty,min=1"`
	Description    *string `json:"descripcion" validate:"omitempty"`
	Date           *string `json:"fecha" validate:"omitempty,len=10"`
	Time           *string `json:"hora" validate:"omitempty,len=5"`
	Symptoms       *string `json:"sintomas" validate:"omitempty"`
	Treatment      *string `json:"tratamiento" validate:"omitempty"`
	Attended       *bool   `json:"atendida"`
	PetID          *int64  `json:"mascota_id" validate:"omitempty,gt=0"`
	VeterinarianID *int64  `json:"veterinario_id" validate:"omitempty,gt=0"`
}
