package pets

// CreatePetRequest registers a pet for an existing owner.
type CreatePetRequest struct {
	Name    string  `json:"nombre" validate:"required,min=1"`
	Species string  `json:"especie" validate:"required,min=1"`
	Breed   *string `json:"raza" validate:"omitempty,min=1"`
	Age     *int    `json:"edad" validate:"omitempty,gte=0"`
	OwnerID int64   `json:"dueno_id" validate:"required,gt=0"`
}

// UpdatePetRequest applies partial changes to a record.
type UpdatePetRequest struct {
	Name    *string `json:"nombre" validate:"omitempty,min=1"`
	Species *string `json:"especie" validate:"omitempty,min=1"`
	Breed   *string `json:"raza" validate:"omitempty,min=1"`
	Age     *int    `json:"edad" validate:"omitempty,gte=0"`
	OwnerID *int64  `json:"dueno_id" validate:"omitempty,gt=0"`
}
