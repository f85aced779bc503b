package veterinarians

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

// ProfileUpdates carries the optional column changes for an update.
type ProfileUpdates struct {
	Name      *string
	WorkStart *string
	WorkEnd   *string
	WorkDays  *string
}

// Repository defines persistence operations for veterinarian profiles.
type Repository interface {
	Get(ctx context.Context, id int64) (*Veterinarian, error)
	GetByUser(ctx context.Context, userID int64) (*Veterinarian, error)
	List(ctx context.Context, limit, offset int) ([]Veterinarian, int, error)
	ListAll(ctx context.Context) ([]Veterinarian, error)
	Create(ctx context.Context, userID *int64, name string, workStart, workEnd, workDays *string) (int64, error)
	Update(ctx context.Context, id int64, updates ProfileUpdates) error
	Delete(ctx context.Context, id int64) error
	BookedSlots(ctx context.Context, vetID int64, date string) ([]string, error)
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

const selectVeterinarian = `
	SELECT v.id, v.name, to_char(v.work_start, 'HH24:MI'), to_char(v.work_end, 'HH24:MI'),
	       v.work_days, u.id, u.email
	FROM veterinarians v
	LEFT JOIN users u ON u.id = v.user_id
`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Veterinarian, error) {
	return scanVeterinarian(r.q(ctx).QueryRow(ctx, selectVeterinarian+" WHERE v.id = $1", id))
}

func (r *PGRepository) GetByUser(ctx context.Context, userID int64) (*Veterinarian, error) {
	return scanVeterinarian(r.q(ctx).QueryRow(ctx, selectVeterinarian+" WHERE v.user_id = $1", userID))
}

func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]Veterinarian, int, error) {
	var total int
	if err := r.q(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM veterinarians").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q(ctx).Query(ctx, selectVeterinarian+" ORDER BY v.id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := collectVeterinarians(rows)
	return result, total, err
}

func (r *PGRepository) ListAll(ctx context.Context) ([]Veterinarian, error) {
	rows, err := r.q(ctx).Query(ctx, selectVeterinarian+" ORDER BY v.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVeterinarians(rows)
}

func (r *PGRepository) Create(ctx context.Context, userID *int64, name string, workStart, workEnd, workDays *string) (int64, error) {
	var id int64
	err := r.q(ctx).QueryRow(ctx,
		`INSERT INTO veterinarians (user_id, name, work_start, work_end, work_days)
		 VALUES ($1, $2, $3::time, $4::time, $5) RETURNING id`,
		userID, name, workStart, workEnd, workDays,
	).Scan(&id)
	return id, err
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates ProfileUpdates) error {
	query := "UPDATE veterinarians SET id = id"
	var args []any
	argPos := 1
	if updates.Name != nil {
		query += fmt.Sprintf(", name = $%d", argPos)
		args = append(args, *updates.Name)
		argPos++
	}
	if updates.WorkStart != nil {
		query += fmt.Sprintf(", work_start = $%d::time", argPos)
		args = append(args, *updates.WorkStart)
		argPos++
	}
	if updates.WorkEnd != nil {
		query += fmt.Sprintf(", work_end = $%d::time", argPos)
		args = append(args, *updates.WorkEnd)
		argPos++
	}
	if updates.WorkDays != nil {
		query += fmt.Sprintf(", work_days = $%d", argPos)
		args = append(args, *updates.WorkDays)
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

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q(ctx).Exec(ctx, "DELETE FROM veterinarians WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// BookedSlots returns the consultation times already taken for a vet on a
// date, formatted "HH24:MI". Rows without a time do not block a slot.
func (r *PGRepository) BookedSlots(ctx context.Context, vetID int64, date string) ([]string, error) {
	rows, err := r.q(ctx).Query(ctx,
		`SELECT to_char(time, 'HH24:MI') FROM consultations
		 WHERE veterinarian_id = $1 AND date = $2::date AND time IS NOT NULL`,
		vetID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		slots = append(slots, t)
	}
	return slots, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVeterinarian(row rowScanner) (*Veterinarian, error) {
	var vet Veterinarian
	var workStart, workEnd, workDays pgtype.Text
	var userID pgtype.Int8
	var email pgtype.Text
	err := row.Scan(&vet.ID, &vet.Name, &workStart, &workEnd, &workDays, &userID, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if workStart.Valid {
		v := workStart.String
		vet.WorkStart = &v
	}
	if workEnd.Valid {
		v := workEnd.String
		vet.WorkEnd = &v
	}
	if workDays.Valid {
		v := workDays.String
		vet.WorkDays = &v
	}
	if userID.Valid {
		vet.User = &AccountRef{ID: userID.Int64, Email: email.String}
	}
	return &vet, nil
}

func collectVeterinarians(rows pgx.Rows) ([]Veterinarian, error) {
	var result []Veterinarian
	for rows.Next() {
		vet, err := scanVeterinarian(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *vet)
	}
	return result, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
