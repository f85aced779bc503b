package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	users  identity.Repository
	tokens TokenRepository
	issuer *Issuer
}

// NewService constructs a new Service.
func NewService(users identity.Repository, tokens TokenRepository, issuer *Issuer) *Service {
	return &Service{users: users, tokens: tokens, issuer: issuer}
}

// Login validates credentials and returns the account with its live token.
// An existing token is reused while it validates; otherwise a fresh one is
// minted and replaces it.
func (s *Service) Login(ctx context.Context, email, password string) (*identity.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}

	if existing, err := s.tokens.Get(ctx, user.ID); err == nil {
		if _, vErr := s.issuer.Validate(existing.Token); vErr == nil {
			return user, existing.Token, nil
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, "", err
	}

	token, err := s.issuer.Mint(user.ID)
	if err != nil {
		return nil, "", err
	}
	if err := s.tokens.Replace(ctx, user.ID, token); err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the account's live token. Without one, NotFound propagates.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.tokens.Delete(ctx, userID)
}

// Authenticate maps a bearer token to the account it was minted for. The
// token must both validate and match the stored live token, so logout
// invalidates outstanding copies immediately.
func (s *Service) Authenticate(ctx context.Context, token string) (*identity.User, error) {
	userID, err := s.issuer.Validate(token)
	if err != nil {
		return nil, shared.ErrAuthenticationFailed
	}
	stored, err := s.tokens.Get(ctx, userID)
	if err != nil || stored.Token != token {
		return nil, shared.ErrAuthenticationFailed
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, shared.ErrAuthenticationFailed
	}
	if !user.IsActive {
		return nil, shared.ErrAuthenticationFailed
	}
	return user, nil
}
