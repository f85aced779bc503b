package receptionists

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinivet/clinivet/internal/platform/db"
	"github.com/clinivet/clinivet/internal/shared"
)

// Repository defines persistence operations for receptionist profiles.
type Repository interface {
	Get(ctx context.Context, id int64) (*Receptionist, error)
	GetByUser(ctx context.Context, userID int64) (*Receptionist, error)
	List(ctx context.Context, limit, offset int) ([]Receptionist, int, error)
	Create(ctx context.Context, userID int64, name, phone *string) (int64, error)
	Update(ctx context.Context, id int64, name, phone *string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// q joins the transaction on ctx when a TxRunner opened one.
func (r *PGRepository) q(ctx context.Context) db.Querier {
	return db.QuerierFrom(ctx, r.pool)
}

const selectReceptionist = `
	SELECT r.id, r.name, r.phone, u.id, u.email
	FROM receptionists r
	JOIN users u ON u.id = r.user_id
`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Receptionist, error) {
	return scanReceptionist(r.q(ctx).QueryRow(ctx, selectReceptionist+" WHERE r.id = $1", id))
}

func (r *PGRepository) GetByUser(ctx context.Context, userID int64) (*Receptionist, error) {
	return scanReceptionist(r.q(ctx).QueryRow(ctx, selectReceptionist+" WHERE r.user_id = $1", userID))
}

func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]Receptionist, int, error) {
	var total int
	if err := r.q(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM receptionists").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q(ctx).Query(ctx, selectReceptionist+" ORDER BY r.id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Receptionist
	for rows.Next() {
		rec, err := scanReceptionist(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *rec)
	}
	return result, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, userID int64, name, phone *string) (int64, error) {
	var id int64
	err := r.q(ctx).QueryRow(ctx,
		"INSERT INTO receptionists (user_id, name, phone) VALUES ($1, $2, $3) RETURNING id",
		userID, name, phone,
	).Scan(&id)
	return id, err
}

func (r *PGRepository) Update(ctx context.Context, id int64, name, phone *string) error {
	query := "UPDATE receptionists SET id = id"
	var args []any
	argPos := 1
	if name != nil {
		query += fmt.Sprintf(", name = $%d", argPos)
		args = append(args, *name)
		argPos++
	}
	if phone != nil {
		query += fmt.Sprintf(", phone = $%d", argPos)
		args = append(args, *phone)
		argPos++
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceptionist(row rowScanner) (*Receptionist, error) {
	var rec Receptionist
	var name, phone pgtype.Text
	err := row.Scan(&rec.ID, &name, &phone, &rec.User.ID, &rec.User.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if name.Valid {
		v := name.String
		rec.Name = &v
	}
	if phone.Valid {
		v := phone.String
		rec.Phone = &v
	}
	return &rec, nil
}

var _ Repository = (*PGRepository)(nil)
