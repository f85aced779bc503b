package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/clinivet/clinivet/internal/roles"
	"github.com/clinivet/clinivet/internal/shared"
)

// Middleware resolves a bearer token into a request principal. Any
// validation failure leaves the request anonymous; route guards decide
// whether anonymity is acceptable.
func Middleware(service *Service, resolver *roles.Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			user, err := service.Authenticate(ctx, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			role, err := resolver.Resolve(ctx, user)
			if err != nil {
				if logger != nil {
					logger.Error("resolve role", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			principal := &shared.Principal{
				UserID:      user.ID,
				Email:       user.Email,
				Phone:       user.Phone,
				IsSuperuser: user.IsSuperuser,
				Role:        role.Kind,
				ProfileID:   role.ProfileID,
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(ctx, principal)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
