package owners

import (
	"context"
	"fmt"

	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/platform/db"
	"github.com/clinivet/clinivet/internal/shared"
)

// Service wraps owner record business rules.
type Service struct {
	repo     Repository
	accounts *identity.Service
	tx       db.TxRunner
}

// NewService constructs a new Service. A nil tx runs composite writes
// without a transaction.
func NewService(repo Repository, accounts *identity.Service, tx db.TxRunner) *Service {
	return &Service{repo: repo, accounts: accounts, tx: tx}
}

func (s *Service) atomically(ctx context.Context, fn func(context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx(ctx, fn)
}

// Register handles anonymous self-registration. It creates a plain login
// account plus a standalone owner record; the two are intentionally not
// linked, the account only grants portal access. Both rows commit together
// so a failed owner insert does not strand a login account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Owner, error) {
	var owner *Owner
	err := s.atomically(ctx, func(ctx context.Context) error {
		_, err := s.accounts.CreateAccount(ctx, identity.NewAccount{
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			return err
		}

		name := req.Name
		if name == nil || *name == "" {
			defaultName := identity.LocalPart(req.Email)
			name = &defaultName
		}

		id, err := s.repo.Create(ctx, name, req.Phone, nil)
		if err != nil {
			return fmt.Errorf("register owner: %w", err)
		}
		owner, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return owner, nil
}

// Create is the staff-side path, stamping the registering receptionist.
func (s *Service) Create(ctx context.Context, req CreateOwnerRequest, registeredBy *int64) (*Owner, error) {
	id, err := s.repo.Create(ctx, req.Name, req.Phone, registeredBy)
	if err != nil {
		return nil, fmt.Errorf("create owner: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update applies partial changes to a record.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOwnerRequest) (*Owner, error) {
	if req.Name != nil || req.Phone != nil {
		if err := s.repo.Update(ctx, id, req.Name, req.Phone); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Get returns a record by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Owner, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of records.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Owner, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Delete removes a record; pets and their consultations cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// SummaryFor builds the role-tagged summary for an owner record.
func (s *Service) SummaryFor(ctx context.Context, role shared.RoleKind, ownerID int64) (*Summary, error) {
	owner, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	pets, err := s.repo.Pets(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if pets == nil {
		pets = []PetRef{}
	}
	recent, err := s.repo.RecentConsultations(ctx, ownerID, recentConsultationLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []ConsultationRef{}
	}
	return &Summary{
		Role:          string(role),
		Owner:         owner,
		Pets:          pets,
		PetCount:      len(pets),
		Consultations: recent,
	}, nil
}

const recentConsultationLimit = 10
