package consultations

import "time"

// Consultation unifies appointments and clinical visits in one record. A
// future unattended row is an appointment; once the vet fills in findings and
// flips attended it becomes the visit record.
type Consultation struct {
	ID             int64   `json:"id"`
	Reason         string  `json:"motivo"`
	Description    *string `json:"descripcion,omitempty"`
	Date           string  `json:"fecha"`
	Time           *string `json:"hora,omitempty"`
	Symptoms       *string `json:"sintomas,omitempty"`
	Treatment      *string `json:"tratamiento,omitempty"`
	Attended       *bool   `json:"atendida"`
	PetID          *int64  `json:"mascota_id"`
	VeterinarianID int64   `json:"veterinario_id"`
	RegisteredBy   *int64  `json:"registered_by,omitempty"`
	Upcoming       bool    `json:"upcoming"`
}

// IsUpcoming reports whether the record still counts as a pending
// appointment: unattended and not in the past. A dateless time slot on
// today's date stays pending all day.
func (c Consultation) IsUpcoming(now time.Time) bool {
	if c.Attended != nil && *c.Attended {
		return false
	}
	today := now.Format("2006-01-02")
	if c.Date > today {
		return true
	}
	if c.Date < today {
		return false
	}
	if c.Time == nil {
		return true
	}
	return *c.Time >= now.Format("15:04")
}
