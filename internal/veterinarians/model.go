package veterinarians

// AccountRef is the login account summary embedded in profile payloads.
type AccountRef struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Veterinarian is a clinical staff profile. The linked account is optional
// for legacy records imported without credentials.
type Veterinarian struct {
	ID        int64       `json:"id"`
	User      *AccountRef `json:"user,omitempty"`
	Name      string      `json:"nombre"`
	WorkStart *string     `json:"work_start,omitempty"`
	WorkEnd   *string     `json:"work_end,omitempty"`
	WorkDays  *string     `json:"work_days,omitempty"`
}

// VeterinarianAvailability pairs a profile with its free hourly slots for a
// given date.
type VeterinarianAvailability struct {
	Veterinarian
	AvailableSlots []string `json:"available_slots"`
}
