package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinivet/clinivet/internal/shared"
)

// TokenRepository defines persistence for active session tokens.
type TokenRepository interface {
	Get(ctx context.Context, userID int64) (*ActiveToken, error)
	Replace(ctx context.Context, userID int64, token string) error
	Delete(ctx context.Context, userID int64) error
}

// PGTokenRepository implements TokenRepository using PostgreSQL.
type PGTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository constructs a PostgreSQL token repository.
func NewTokenRepository(pool *pgxpool.Pool) *PGTokenRepository {
	return &PGTokenRepository{pool: pool}
}

func (r *PGTokenRepository) Get(ctx context.Context, userID int64) (*ActiveToken, error) {
	var t ActiveToken
	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx,
		"SELECT user_id, token, created_at FROM active_tokens WHERE user_id = $1", userID,
	).Scan(&t.UserID, &t.Token, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	t.CreatedAt = createdAt.Time
	return &t, nil
}

// Replace upserts the single live token for an account.
func (r *PGTokenRepository) Replace(ctx context.Context, userID int64, token string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO active_tokens (user_id, token, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, created_at = NOW()
	`, userID, token)
	return err
}

func (r *PGTokenRepository) Delete(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM active_tokens WHERE user_id = $1", userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ TokenRepository = (*PGTokenRepository)(nil)
