package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinivet/clinivet/internal/shared"
)

// PGLookup implements ProfileLookup over PostgreSQL.
type PGLookup struct {
	pool *pgxpool.Pool
}

// NewLookup constructs a PGLookup.
func NewLookup(pool *pgxpool.Pool) *PGLookup {
	return &PGLookup{pool: pool}
}

func (l *PGLookup) ReceptionistIDByUser(ctx context.Context, userID int64) (int64, error) {
	return l.profileID(ctx, "SELECT id FROM receptionists WHERE user_id = $1", userID)
}

func (l *PGLookup) VeterinarianIDByUser(ctx context.Context, userID int64) (int64, error) {
	return l.profileID(ctx, "SELECT id FROM veterinarians WHERE user_id = $1", userID)
}

func (l *PGLookup) profileID(ctx context.Context, query string, userID int64) (int64, error) {
	var id int64
	err := l.pool.QueryRow(ctx, query, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

var _ ProfileLookup = (*PGLookup)(nil)
