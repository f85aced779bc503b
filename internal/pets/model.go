package pets

// Pet is an animal record, always tied to an owner.
type Pet struct {
	ID           int64   `json:"id"`
	Name         string  `json:"nombre"`
	Species      string  `json:"especie"`
	Breed        *string `json:"raza,omitempty"`
	Age          *int    `json:"edad,omitempty"`
	OwnerID      int64   `json:"dueno_id"`
	RegisteredBy *int64  `json:"registered_by,omitempty"`
}
