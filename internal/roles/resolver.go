package roles

import (
	"context"
	"errors"

	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/shared"
)

// ProfileLookup finds the staff profile attached to an account, if any.
// Implementations return shared.ErrNotFound when no profile exists.
type ProfileLookup interface {
	ReceptionistIDByUser(ctx context.Context, userID int64) (int64, error)
	VeterinarianIDByUser(ctx context.Context, userID int64) (int64, error)
}

// Resolver maps an account to its single role.
type Resolver struct {
	lookup ProfileLookup
}

// NewResolver constructs a Resolver.
func NewResolver(lookup ProfileLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve probes profile attachments in fixed priority order: receptionist,
// then veterinarian, then the superuser flag, defaulting to the weakest role.
// Resolution itself has no failure mode; only storage errors propagate.
func (r *Resolver) Resolve(ctx context.Context, user *identity.User) (Role, error) {
	if user == nil {
		return Role{Kind: shared.RoleUser}, nil
	}

	if id, err := r.lookup.ReceptionistIDByUser(ctx, user.ID); err == nil {
		return Role{Kind: shared.RoleReceptionist, ProfileID: id}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Role{}, err
	}

	if id, err := r.lookup.VeterinarianIDByUser(ctx, user.ID); err == nil {
		return Role{Kind: shared.RoleVeterinarian, ProfileID: id}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Role{}, err
	}

	if user.IsSuperuser {
		return Role{Kind: shared.RoleAdmin}, nil
	}
	return Role{Kind: shared.RoleUser}, nil
}
