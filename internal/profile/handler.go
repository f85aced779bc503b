package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/platform/httpx"
	"github.com/clinivet/clinivet/internal/receptionists"
	"github.com/clinivet/clinivet/internal/roles"
	"github.com/clinivet/clinivet/internal/shared"
	"github.com/clinivet/clinivet/internal/veterinarians"
)

// Handler serves the role-dispatched self endpoints. It sits above the staff
// packages because which profile "me" means depends on the resolved role.
type Handler struct {
	logger        *slog.Logger
	accounts      *identity.Service
	receptionists *receptionists.Service
	veterinarians *veterinarians.Service
	rolesMW       roles.Middleware
	validator     *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, accounts *identity.Service, recs *receptionists.Service, vets *veterinarians.Service, rolesMW roles.Middleware) *Handler {
	return &Handler{
		logger:        logger,
		accounts:      accounts,
		receptionists: recs,
		veterinarians: vets,
		rolesMW:       rolesMW,
		validator:     validator.New(),
	}
}

// MountProfileRoutes registers /profile/me on the provided router.
func (h *Handler) MountProfileRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAuthenticated)
		r.Get("/me", h.handleProfileMe)
		r.Put("/me", h.handleUpdateProfileMe)
		r.Patch("/me", h.handleUpdateProfileMe)
	})
}

// MountUserRoutes registers /users/me on the provided router.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAuthenticated)
		r.Get("/me", h.handleUserMe)
		r.Put("/me", h.handleUpdateUserMe)
		r.Patch("/me", h.handleUpdateUserMe)
	})
}

type profileResponse struct {
	Role    string `json:"role"`
	Profile any    `json:"profile"`
}

// handleProfileMe returns the staff profile matching the caller's role.
// Plain users, including self-registered owner accounts, have no staff
// profile to show.
func (h *Handler) handleProfileMe(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	switch p.Role {
	case shared.RoleReceptionist:
		rec, err := h.receptionists.Get(r.Context(), p.ProfileID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, profileResponse{Role: string(p.Role), Profile: rec})
	case shared.RoleVeterinarian:
		vet, err := h.veterinarians.Get(r.Context(), p.ProfileID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, profileResponse{Role: string(p.Role), Profile: vet})
	case shared.RoleAdmin:
		user, err := h.accounts.Get(r.Context(), p.UserID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, profileResponse{Role: string(p.Role), Profile: user})
	default:
		httpx.RespondError(w, shared.PermissionError("profile not applicable"))
	}
}

// handleUpdateProfileMe applies partial changes to whichever profile "me"
// resolves to. The request body is decoded per role so each profile keeps
// its own field set and validation rules.
func (h *Handler) handleUpdateProfileMe(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	switch p.Role {
	case shared.RoleReceptionist:
		var req receptionists.UpdateReceptionistRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httpx.RespondError(w, err)
			return
		}
		rec, err := h.receptionists.Update(r.Context(), p.ProfileID, req)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, profileResponse{Role: string(p.Role), Profile: rec})
	case shared.RoleVeterinarian:
		var req veterinarians.UpdateVeterinarianRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httpx.RespondError(w, err)
			return
		}
		vet, err := h.veterinarians.Update(r.Context(), p.ProfileID, req)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, profileResponse{Role: string(p.Role), Profile: vet})
	case shared.RoleAdmin:
		var req updateUserRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httpx.RespondError(w, err)
			return
		}
		if err := h.accounts.UpdateAccount(r.Context(), p.UserID, req.Email, req.Password, req.Phone); err != nil {
			httpx.RespondError(w, err)
			return
		}
		user, err := h.accounts.Get(r.Context(), p.UserID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, profileResponse{Role: string(p.Role), Profile: user})
	default:
		httpx.RespondError(w, shared.PermissionError("profile not applicable"))
	}
}

type userResponse struct {
	Role string         `json:"role"`
	User *identity.User `json:"user"`
}

func (h *Handler) handleUserMe(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	user, err := h.accounts.Get(r.Context(), p.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{Role: string(p.Role), User: user})
}

type updateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Phone    *string `json:"telefono" validate:"omitempty,max=30"`
}

func (h *Handler) handleUpdateUserMe(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	p := shared.PrincipalFromContext(r.Context())
	if err := h.accounts.UpdateAccount(r.Context(), p.UserID, req.Email, req.Password, req.Phone); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.accounts.Get(r.Context(), p.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{Role: string(p.Role), User: user})
}
