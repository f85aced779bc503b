package receptionists

// AccountRef is the nested account payload echoed on profile responses.
type AccountRef struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Receptionist is a clinic staff profile with elevated creation rights,
// always backed by a login account.
type Receptionist struct {
	ID    int64      `json:"id"`
	User  AccountRef `json:"user"`
	Name  *string    `json:"nombre"`
	Phone *string    `json:"telefono"`
}
