package consultations

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/clinivet/clinivet/internal/platform/httpx"
	"github.com/clinivet/clinivet/internal/roles"
	"github.com/clinivet/clinivet/internal/shared"
)

// Handler exposes consultation endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rolesMW   roles.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rolesMW roles.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		rolesMW:   rolesMW,
		validator: validator.New(),
	}
}

// MountRoutes registers consultation routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAuthenticated)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.Require(roles.OpHistorialRead))
		r.Get("/historial", h.handleHistorial)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAny(shared.RoleReceptionist, shared.RoleVeterinarian, shared.RoleAdmin))
		r.Post("/", h.handleCreate)
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

// MountVeterinarianRoutes registers the vet-scoped listing. It is mounted
// under the veterinarians prefix by the router.
func (h *Handler) MountVeterinarianRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAuthenticated)
		r.Get("/{id}/consultations", h.handleListForVeterinarian)
	})
}

type listResponse struct {
	Data       []Consultation    `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func filterFromQuery(q url.Values) (Filter, error) {
	var f Filter
	if raw := q.Get("mascota_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, shared.NewValidationError("mascota_id", "must be an integer")
		}
		f.PetID = &id
	}
	if raw := q.Get("veterinario_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, shared.NewValidationError("veterinario_id", "must be an integer")
		}
		f.VeterinarianID = &id
	}
	if raw := q.Get("start_date"); raw != "" {
		f.StartDate = &raw
	}
	if raw := q.Get("end_date"); raw != "" {
		f.EndDate = &raw
	}
	if raw := q.Get("atendida"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, shared.NewValidationError("atendida", "must be a boolean")
		}
		f.Attended = &v
	}
	return f, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f Filter) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	pg := shared.NewPagination(page, perPage, 0)

	items, total, err := h.service.List(r.Context(), f, pg.PerPage, pg.Offset())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Consultation{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Data: items, Pagination: shared.NewPagination(page, perPage, total)})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.list(w, r, f)
}

// handleHistorial is the staff-only clinical history view for one pet.
func (h *Handler) handleHistorial(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if f.PetID == nil {
		httpx.RespondError(w, shared.NewValidationError("mascota_id", "mascota_id is required"))
		return
	}
	h.list(w, r, f)
}

func (h *Handler) handleListForVeterinarian(w http.ResponseWriter, r *http.Request) {
	vetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	f.VeterinarianID = &vetID
	h.list(w, r, f)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateConsultationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	p := shared.PrincipalFromContext(r.Context())
	var registeredBy *int64
	if p.Is(shared.RoleReceptionist) {
		registeredBy = &p.ProfileID
	}

	c, err := h.service.Create(r.Context(), req, registeredBy)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("consultation created", slog.Int64("id", c.ID), slog.Int64("veterinarian", c.VeterinarianID))
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}

	var req UpdateConsultationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	c, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
