package owners

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/clinivet/clinivet/internal/platform/httpx"
	"github.com/clinivet/clinivet/internal/roles"
	"github.com/clinivet/clinivet/internal/shared"
)

// Handler exposes owner record endpoints.
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

// MountRoutes registers owner routes on the provided router. The collection
// POST stays open because anonymous visitors self-register through it.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAuthenticated)
		r.Get("/", h.handleList)
		r.Get("/me/summary", h.handleSummary)
		r.Get("/{id}", h.handleGet)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rolesMW.RequireAny(shared.RoleReceptionist, shared.RoleAdmin))
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

type listResponse struct {
	Data       []Owner           `json:"data"`
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
		items = []Owner{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Data: items, Pagination: shared.NewPagination(page, perPage, total)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	owner, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, owner)
}

// handleCreate dispatches on the caller: anonymous requests self-register a
// portal account plus an owner record, staff requests create the record only.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil {
		h.register(w, r)
		return
	}
	if !p.Is(shared.RoleReceptionist, shared.RoleAdmin) {
		httpx.RespondError(w, shared.PermissionError("operation not allowed for role"))
		return
	}

	var req CreateOwnerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	var registeredBy *int64
	if p.Is(shared.RoleReceptionist) {
		registeredBy = &p.ProfileID
	}
	owner, err := h.service.Create(r.Context(), req, registeredBy)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("owner created", slog.Int64("id", owner.ID))
	httpx.JSON(w, http.StatusCreated, owner)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	owner, err := h.service.Register(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("owner self-registered", slog.Int64("id", owner.ID))
	httpx.JSON(w, http.StatusCreated, owner)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}

	var req UpdateOwnerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	owner, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, owner)
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

// handleSummary serves the role-tagged owner overview. Owner records carry no
// account link, so staff select the record with ?dueno_id.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	if !p.Is(shared.RoleReceptionist, shared.RoleVeterinarian, shared.RoleAdmin) {
		httpx.RespondError(w, shared.PermissionError("profile not applicable"))
		return
	}

	raw := r.URL.Query().Get("dueno_id")
	if raw == "" {
		httpx.RespondError(w, shared.NewValidationError("dueno_id", "dueno_id is required"))
		return
	}
	ownerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.NewValidationError("dueno_id", "must be an integer"))
		return
	}

	summary, err := h.service.SummaryFor(r.Context(), p.Role, ownerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
