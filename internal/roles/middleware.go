package roles

import (
	"log/slog"
	"net/http"

	"github.com/clinivet/clinivet/internal/platform/httpx"
	"github.com/clinivet/clinivet/internal/shared"
)

// Middleware wires role checks into the HTTP router.
type Middleware struct {
	Gate   Gate
	Logger *slog.Logger
}

// RequireAuthenticated rejects anonymous requests with 401.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.PrincipalFromContext(r.Context()) == nil {
			httpx.RespondError(w, shared.ErrAuthenticationFailed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAny ensures the caller holds at least one of the given roles.
// Anonymous callers get 401, authenticated ones without the role 403.
func (m Middleware) RequireAny(kinds ...shared.RoleKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := shared.PrincipalFromContext(r.Context())
			if p == nil {
				httpx.RespondError(w, shared.ErrAuthenticationFailed)
				return
			}
			if !p.Is(kinds...) {
				if m.Logger != nil {
					m.Logger.Warn("role denied", slog.String("path", r.URL.Path), slog.String("role", string(p.Role)))
				}
				httpx.RespondError(w, shared.PermissionError("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require gates a target-less operation through the authorization gate.
func (m Middleware) Require(op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := shared.PrincipalFromContext(r.Context())
			if p == nil {
				httpx.RespondError(w, shared.ErrAuthenticationFailed)
				return
			}
			if !m.Gate.Can(p, op, Target{}) {
				httpx.RespondError(w, shared.PermissionError("operation not allowed for role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
