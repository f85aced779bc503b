package veterinarians

import (
	"context"
	"fmt"

	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/platform/db"
)

// Service wraps veterinarian profile business rules.
type Service struct {
	repo     Repository
	accounts *identity.Service
	cache    *AvailabilityCache
	tx       db.TxRunner
}

// NewService constructs a new Service. A nil tx runs composite writes
// without a transaction.
func NewService(repo Repository, accounts *identity.Service, cache *AvailabilityCache, tx db.TxRunner) *Service {
	return &Service{repo: repo, accounts: accounts, cache: cache, tx: tx}
}

func (s *Service) atomically(ctx context.Context, fn func(context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx(ctx, fn)
}

// Create registers the login account and the profile in one transaction. The
// name defaults to the email local-part and the schedule to 09:00-14:00.
func (s *Service) Create(ctx context.Context, req CreateVeterinarianRequest) (*Veterinarian, error) {
	var vet *Veterinarian
	err := s.atomically(ctx, func(ctx context.Context) error {
		user, err := s.accounts.CreateAccount(ctx, identity.NewAccount{
			Email:    req.Email,
			Password: req.Password,
			IsStaff:  true,
		})
		if err != nil {
			return err
		}

		name := identity.LocalPart(req.Email)
		if req.Name != nil && *req.Name != "" {
			name = *req.Name
		}
		workStart := req.WorkStart
		if workStart == nil {
			v := DefaultWorkStart
			workStart = &v
		}
		workEnd := req.WorkEnd
		if workEnd == nil {
			v := DefaultWorkEnd
			workEnd = &v
		}

		id, err := s.repo.Create(ctx, &user.ID, name, workStart, workEnd, req.WorkDays)
		if err != nil {
			return fmt.Errorf("create veterinarian: %w", err)
		}
		vet, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vet, nil
}

// Update applies partial changes to the profile and its linked account as a
// single atomic write.
func (s *Service) Update(ctx context.Context, id int64, req UpdateVeterinarianRequest) (*Veterinarian, error) {
	var vet *Veterinarian
	err := s.atomically(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil || req.WorkStart != nil || req.WorkEnd != nil || req.WorkDays != nil {
			updates := ProfileUpdates{
				Name:      req.Name,
				WorkStart: req.WorkStart,
				WorkEnd:   req.WorkEnd,
				WorkDays:  req.WorkDays,
			}
			if err := s.repo.Update(ctx, id, updates); err != nil {
				return err
			}
		}
		if (req.Email != nil || req.Password != nil) && current.User != nil {
			if err := s.accounts.UpdateAccount(ctx, current.User.ID, req.Email, req.Password, nil); err != nil {
				return err
			}
		}
		vet, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	// Schedule changes shift the free slots, so cached listings are stale.
	// Bumped after commit so readers never see the new version before the
	// rows land.
	if req.WorkStart != nil || req.WorkEnd != nil {
		if err := s.cache.Bump(ctx); err != nil {
			return nil, err
		}
	}
	return vet, nil
}

// Get returns a profile by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Veterinarian, error) {
	return s.repo.Get(ctx, id)
}

// GetByUser returns the profile linked to an account.
func (s *Service) GetByUser(ctx context.Context, userID int64) (*Veterinarian, error) {
	return s.repo.GetByUser(ctx, userID)
}

// List returns a page of profiles.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Veterinarian, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Delete removes the profile. When a login account is linked it is deleted
// and the profile row goes with it via cascade; unlinked rows are deleted
// directly.
func (s *Service) Delete(ctx context.Context, id int64) error {
	vet, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if vet.User != nil {
		return s.accounts.Delete(ctx, vet.User.ID)
	}
	return s.repo.Delete(ctx, id)
}

// Availability computes the free hourly slots for one vet on a date, served
// from the cache when warm.
func (s *Service) Availability(ctx context.Context, vet Veterinarian, date string) ([]string, error) {
	if vet.WorkStart == nil || vet.WorkEnd == nil {
		return []string{}, nil
	}

	key, err := s.cache.BuildKey(ctx, "availability", date, fmt.Sprintf("%d", vet.ID))
	if err != nil {
		return nil, err
	}

	var slots []string
	err = s.cache.FetchJSON(ctx, key, &slots, func(ctx context.Context) (interface{}, error) {
		booked, err := s.repo.BookedSlots(ctx, vet.ID, date)
		if err != nil {
			return nil, err
		}
		return AvailableSlots(*vet.WorkStart, *vet.WorkEnd, booked), nil
	})
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

// WithAvailability lists every vet together with the free slots for a date.
func (s *Service) WithAvailability(ctx context.Context, date string) ([]VeterinarianAvailability, error) {
	vets, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]VeterinarianAvailability, 0, len(vets))
	for _, vet := range vets {
		slots, err := s.Availability(ctx, vet, date)
		if err != nil {
			return nil, err
		}
		result = append(result, VeterinarianAvailability{Veterinarian: vet, AvailableSlots: slots})
	}
	return result, nil
}
