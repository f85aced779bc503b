package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/clinivet/clinivet/internal/auth"
	"github.com/clinivet/clinivet/internal/consultations"
	"github.com/clinivet/clinivet/internal/owners"
	"github.com/clinivet/clinivet/internal/pets"
	"github.com/clinivet/clinivet/internal/profile"
	"github.com/clinivet/clinivet/internal/receptionists"
	"github.com/clinivet/clinivet/internal/veterinarians"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	Authn                func(http.Handler) http.Handler
	AuthHandler          *auth.Handler
	OwnersHandler        *owners.Handler
	ReceptionistsHandler *receptionists.Handler
	VeterinariansHandler *veterinarians.Handler
	PetsHandler          *pets.Handler
	ConsultationsHandler *consultations.Handler
	ProfileHandler       *profile.Handler
}

// NewRouter constructs the chi.Router with Clinivet defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
		Authn:  params.Authn,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/owners", params.OwnersHandler.MountRoutes)
		r.Route("/receptionists", params.ReceptionistsHandler.MountRoutes)
		r.Route("/veterinarians", func(r chi.Router) {
			params.VeterinariansHandler.MountRoutes(r)
			params.ConsultationsHandler.MountVeterinarianRoutes(r)
		})
		r.Route("/pets", params.PetsHandler.MountRoutes)
		r.Route("/consultations", params.ConsultationsHandler.MountRoutes)
		r.Route("/users", params.ProfileHandler.MountUserRoutes)
		r.Route("/profile", params.ProfileHandler.MountProfileRoutes)
	})

	return r
}
