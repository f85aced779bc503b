package consultations

import (
	"context"
	"fmt"
	"time"

	"github.com/clinivet/clinivet/internal/shared"
)

// SlotInvalidator is bumped whenever a write may change a vet's free slots.
type SlotInvalidator interface {
	Bump(ctx context.Context) error
}

// Service wraps consultation business rules.
type Service struct {
	repo  Repository
	slots SlotInvalidator
	now   func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, slots SlotInvalidator) *Service {
	return &Service{repo: repo, slots: slots, now: time.Now}
}

// Create books a consultation. The date defaults to today and foreign
// references are validated up front so callers get field errors instead of
// constraint violations.
func (s *Service) Create(ctx context.Context, req CreateConsultationRequest, registeredBy *int64) (*Consultation, error) {
	ok, err := s.repo.VeterinarianExists(ctx, req.VeterinarianID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewValidationError("veterinario_id", "veterinarian does not exist")
	}
	if req.PetID != nil {
		ok, err := s.repo.PetExists(ctx, *req.PetID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shared.NewValidationError("mascota_id", "pet does not exist")
		}
	}
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			return nil, shared.NewValidationError("fecha", "must be a date in YYYY-MM-DD format")
		}
	}

	date := s.now().Format("2006-01-02")
	if req.Date != nil {
		date = *req.Date
	}

	id, err := s.repo.Create(ctx, req, date, registeredBy)
	if err != nil {
		return nil, fmt.Errorf("create consultation: %w", err)
	}
	if err := s.slots.Bump(ctx); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Update applies partial changes, re-validating moved references.
func (s *Service) Update(ctx context.Context, id int64, req UpdateConsultationRequest) (*Consultation, error) {
	if req.VeterinarianID != nil {
		ok, err := s.repo.VeterinarianExists(ctx, *req.VeterinarianID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shared.NewValidationError("veterinario_id", "veterinarian does not exist")
		}
	}
	if req.PetID != nil {
		ok, err := s.repo.PetExists(ctx, *req.PetID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shared.NewValidationError("mascota_id", "pet does not exist")
		}
	}
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			return nil, shared.NewValidationError("fecha", "must be a date in YYYY-MM-DD format")
		}
	}

	updates := Updates{
		Reason:         req.Reason,
		Description:    req.Description,
		Date:           req.Date,
		Time:           req.Time,
		Symptoms:       req.Symptoms,
		Treatment:      req.Treatment,
		Attended:       req.Attended,
		PetID:          req.PetID,
		VeterinarianID: req.VeterinarianID,
	}
	if updates != (Updates{}) {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
		if err := s.slots.Bump(ctx); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Get returns a record with its derived upcoming flag.
func (s *Service) Get(ctx context.Context, id int64) (*Consultation, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Upcoming = c.IsUpcoming(s.now())
	return c, nil
}

// List returns a filtered page of records.
func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]Consultation, int, error) {
	items, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	for i := range items {
		items[i].Upcoming = items[i].IsUpcoming(now)
	}
	return items, total, nil
}

// Delete removes a record and frees its slot.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.slots.Bump(ctx)
}
