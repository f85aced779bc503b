package pets

import (
	"context"
	"fmt"

	"github.com/clinivet/clinivet/internal/shared"
)

// Service wraps pet record business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a pet after confirming the owner exists.
func (s *Service) Create(ctx context.Context, req CreatePetRequest, registeredBy *int64) (*Pet, error) {
	ok, err := s.repo.OwnerExists(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewValidationError("dueno_id", "owner does not exist")
	}

	id, err := s.repo.Create(ctx, req, registeredBy)
	if err != nil {
		return nil, fmt.Errorf("create pet: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update applies partial changes, re-validating the owner when it moves.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePetRequest) (*Pet, error) {
	if req.OwnerID != nil {
		ok, err := s.repo.OwnerExists(ctx, *req.OwnerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shared.NewValidationError("dueno_id", "owner does not exist")
		}
	}

	updates := Updates{
		Name:    req.Name,
		Species: req.Species,
		Breed:   req.Breed,
		Age:     req.Age,
		OwnerID: req.OwnerID,
	}
	if updates != (Updates{}) {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Get returns a record by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Pet, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of records, optionally scoped to one owner.
func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]Pet, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Delete removes a record; its consultations cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
