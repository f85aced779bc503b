package shared

import "context"

// RoleKind is the resolved capability class of an authenticated caller.
type RoleKind string

const (
	RoleReceptionist RoleKind = "recepcionista"
	RoleVeterinarian RoleKind = "veterinario"
	RoleAdmin        RoleKind = "admin"
	RoleUser         RoleKind = "user"
)

// Principal is the authenticated caller, with its role resolved once at
// authentication time and threaded through the request context.
type Principal struct {
	UserID      int64
	Email       string
	Phone       *string
	IsSuperuser bool
	Role        RoleKind
	// ProfileID is the receptionist or veterinarian record ID for staff roles,
	// zero otherwise.
	ProfileID int64
}

// Is reports whether the principal holds one of the given roles.
func (p *Principal) Is(kinds ...RoleKind) bool {
	if p == nil {
		return false
	}
	for _, k := range kinds {
		if p.Role == k {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// ContextWithPrincipal stores the authenticated principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context; nil for anonymous
// requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
