package veterinarians

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/clinivet/clinivet/internal/platform/httpx"
	"github.com/clinivet/clinivet/internal/roles"
	"github.com/clinivet/clinivet/internal/shared"
)

// Handler exposes veterinarian profile endpoints.
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

// MountRoutes registers veterinarian routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	// Open endpoint: booking flows list free slots before the caller has an
	// account.
	r.Get("/with-availability", h.handleWithAvailability)
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAuthenticated)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}", h.handleUpdate)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAny(shared.RoleVeterinarian))
		r.Get("/me", h.handleMe)
		r.Put("/me", h.handleUpdateMe)
		r.Patch("/me", h.handleUpdateMe)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAny(shared.RoleAdmin))
		r.Post("/", h.handleCreate)
		r.Delete("/{id}", h.handleDelete)
	})
}

type listResponse struct {
	Data       []Veterinarian    `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	pg := shared.NewPagination(page, perPage, 0)

	items, total, err := h.service.List(r.Context(), pg.PerPage, pg.Offset())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Veterinarian{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Data: items, Pagination: shared.NewPagination(page, perPage, total)})
}

func (h *Handler) handleWithAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("fecha")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		httpx.RespondError(w, shared.NewValidationError("fecha", "must be a date in YYYY-MM-DD format"))
		return
	}

	result, err := h.service.WithAvailability(r.Context(), date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"fecha": date, "data": result})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	vet, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateVeterinarianRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	vet, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("veterinarian created", slog.Int64("id", vet.ID))
	httpx.JSON(w, http.StatusCreated, vet)
}

// handleUpdate lets admins edit any profile and vets edit their own.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}

	p := shared.PrincipalFromContext(r.Context())
	if !h.rolesMW.Gate.Can(p, roles.OpVeterinarianUpdate, roles.Target{VeterinarianID: id}) {
		httpx.RespondError(w, shared.PermissionError("operation not allowed for role"))
		return
	}
	h.update(w, r, id)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	vet, err := h.service.Get(r.Context(), p.ProfileID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vet)
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	h.update(w, r, p.ProfileID)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateVeterinarianRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	vet, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vet)
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
