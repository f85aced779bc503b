package owners

// Owner is an administrative client record. Owners are contact records only
// and never reference a login account.
type Owner struct {
	ID           int64   `json:"id"`
	Name         *string `json:"nombre"`
	Phone        *string `json:"telefono"`
	RegisteredBy *int64  `json:"registered_by,omitempty"`
}

// PetRef is the pet summary embedded in owner summaries.
type PetRef struct {
	ID      int64   `json:"id"`
	Name    string  `json:"nombre"`
	Species string  `json:"especie"`
	Breed   *string `json:"raza,omitempty"`
	Age     *int    `json:"edad,omitempty"`
}

// ConsultationRef is the consultation summary embedded in owner summaries.
type ConsultationRef struct {
	ID       int64   `json:"id"`
	Reason   string  `json:"motivo"`
	Date     string  `json:"fecha"`
	Time     *string `json:"hora,omitempty"`
	Attended *bool   `json:"atendida"`
	PetID    *int64  `json:"mascota_id"`
}

// Summary is the role-tagged payload behind /owners/me/summary.
type Summary struct {
	Role          string            `json:"role"`
	Owner         *Owner            `json:"dueno,omitempty"`
	Pets          []PetRef          `json:"mascotas"`
	PetCount      int               `json:"total_mascotas"`
	Consultations []ConsultationRef `json:"consultas_recientes"`
}
