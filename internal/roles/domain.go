// Package roles resolves the capability class of an authenticated caller and
// gates operations on it. A role is computed once at authentication time and
// carried on the request principal; handlers never re-probe profiles.
package roles

import "github.com/clinivet/clinivet/internal/shared"

// Role is the resolved capability class, a tagged value rather than a set of
// ad hoc profile probes.
type Role struct {
	Kind shared.RoleKind
	// ProfileID is the receptionist or veterinarian record backing a staff
	// role; zero for admin and plain users.
	ProfileID int64
}

// Operation names a gated action.
type Operation string

const (
	OpOwnerCreate        Operation = "owners.create"
	OpOwnerManage        Operation = "owners.manage"
	OpReceptionistManage Operation = "receptionists.manage"
	OpVeterinarianCreate Operation = "veterinarians.create"
	OpVeterinarianUpdate Operation = "veterinarians.update"
	OpPetManage          Operation = "pets.manage"
	OpHistorialRead      Operation = "consultations.historial"
)

// Target carries record ownership needed by ownership-sensitive rules.
type Target struct {
	VeterinarianID int64
}
