package receptionists

import (
	"context"
	"fmt"

	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/platform/db"
)

// Service wraps receptionist profile business rules.
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

// Create registers the login account and the profile in one transaction. The
// profile name defaults to the email local-part when omitted.
func (s *Service) Create(ctx context.Context, req CreateReceptionistRequest) (*Receptionist, error) {
	var rec *Receptionist
	err := s.atomically(ctx, func(ctx context.Context) error {
		user, err := s.accounts.CreateAccount(ctx, identity.NewAccount{
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
			IsStaff:  true,
		})
		if err != nil {
			return err
		}

		name := req.Name
		if name == nil || *name == "" {
			defaultName := identity.LocalPart(req.Email)
			name = &defaultName
		}

		id, err := s.repo.Create(ctx, user.ID, name, req.Phone)
		if err != nil {
			return fmt.Errorf("create receptionist: %w", err)
		}
		rec, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update applies partial changes to the profile and its linked account as a
// single atomic write.
func (s *Service) Update(ctx context.Context, id int64, req UpdateReceptionistRequest) (*Receptionist, error) {
	var rec *Receptionist
	err := s.atomically(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil || req.Phone != nil {
			if err := s.repo.Update(ctx, id, req.Name, req.Phone); err != nil {
				return err
			}
		}
		if req.Email != nil || req.Password != nil || req.Phone != nil {
			if err := s.accounts.UpdateAccount(ctx, current.User.ID, req.Email, req.Password, req.Phone); err != nil {
				return err
			}
		}
		rec, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns a profile by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Receptionist, error) {
	return s.repo.Get(ctx, id)
}

// GetByUser returns the profile linked to an account.
func (s *Service) GetByUser(ctx context.Context, userID int64) (*Receptionist, error) {
	return s.repo.GetByUser(ctx, userID)
}

// List returns a page of profiles.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Receptionist, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Delete removes the profile by deleting its login account; the profile row
// goes with it via foreign-key cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.accounts.Delete(ctx, rec.User.ID)
}
