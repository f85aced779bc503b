package roles

import "github.com/clinivet/clinivet/internal/shared"

// Gate is the per-operation authorization predicate. A nil principal means
// the caller is anonymous.
type Gate struct{}

// Can reports whether the principal may perform op on target.
func (Gate) Can(p *shared.Principal, op Operation, target Target) bool {
	switch op {
	case OpOwnerCreate, OpOwnerManage, OpPetManage:
		return p.Is(shared.RoleReceptionist, shared.RoleAdmin)
	case OpReceptionistManage, OpVeterinarianCreate:
		return p.Is(shared.RoleAdmin)
	case OpVeterinarianUpdate:
		if p.Is(shared.RoleAdmin) {
			return true
		}
		return p.Is(shared.RoleVeterinarian) && p.ProfileID == target.VeterinarianID
	case OpHistorialRead:
		return p.Is(shared.RoleReceptionist, shared.RoleVeterinarian, shared.RoleAdmin)
	}
	return false
}
