package identity

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinivet/clinivet/internal/shared"
)

// Service wraps account business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewAccount describes an account to create.
type NewAccount struct {
	Email       string
	Password    string
	Phone       *string
	IsStaff     bool
	IsSuperuser bool
}

// CreateAccount registers a new login account. A taken email is a validation
// failure, surfaced with a static message.
func (s *Service) CreateAccount(ctx context.Context, acc NewAccount) (*User, error) {
	taken, err := s.repo.EmailTaken(ctx, acc.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewValidationError("email", "Email already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:        acc.Email,
		PasswordHash: string(hash),
		Phone:        acc.Phone,
		IsStaff:      acc.IsStaff,
		IsSuperuser:  acc.IsSuperuser,
		IsActive:     true,
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

// UpdateAccount applies partial changes to an account; a new password is
// hashed before persisting.
func (s *Service) UpdateAccount(ctx context.Context, id int64, email, password, phone *string) error {
	updates := AccountUpdates{Phone: phone}
	if email != nil {
		taken, err := s.repo.EmailTaken(ctx, *email)
		if err != nil {
			return err
		}
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if taken && !strings.EqualFold(current.Email, *email) {
			return shared.NewValidationError("email", "Email already taken")
		}
		updates.Email = email
	}
	if password != nil && *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hashed := string(hash)
		updates.PasswordHash = &hashed
	}
	if updates.Email == nil && updates.PasswordHash == nil && updates.Phone == nil {
		return nil
	}
	return s.repo.Update(ctx, id, updates)
}

// Get returns an account by ID.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes an account; dependent staff profiles go with it via
// foreign-key cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// LocalPart derives a default display name from an email address.
func LocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
