package consultations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinivet/clinivet/internal/shared"
)

// Filter narrows consultation listings. Dates are "YYYY-MM-DD" strings.
type Filter struct {
	PetID          *int64
	VeterinarianID *int64
	StartDate      *string
	EndDate        *string
	Attended       *bool
}

// Updates carries the optional column changes for an update.
type Updates struct {
	Reason         *string
	Description    *string
	Date           *string
	Time           *string
	Symptoms       *string
	Treatment      *string
	Attended       *bool
	PetID          *int64
	VeterinarianID *int64
}

// Repository defines persistence operations for consultation records.
type Repository interface {
	Get(ctx context.Context, id int64) (*Consultation, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]Consultation, int, error)
	Create(ctx context.Context, req CreateConsultationRequest, date string, registeredBy *int64) (int64, error)
	Update(ctx context.Context, id int64, updates Updates) error
	Delete(ctx context.Context, id int64) error
	VeterinarianExists(ctx context.Context, vetID int64) (bool, error)
	PetExists(ctx context.Context, petID int64) (bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const selectConsultation = `
	SELECT id, reason, description, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'),
	       symptoms, treatment, attended, pet_id, veterinarian_id, registered_by
	FROM consultations
`

func (r *PGRepository) Get(ctx context.Context, id int64) (*Consultation, error) {
	return scanConsultation(r.pool.QueryRow(ctx, selectConsultation+" WHERE id = $1", id))
}

func (r *PGRepository) List(ctx context.Context, f Filter, limit, offset int) ([]Consultation, int, error) {
	var conds []string
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.PetID != nil {
		add("pet_id = $%d", *f.PetID)
	}
	if f.VeterinarianID != nil {
		add("veterinarian_id = $%d", *f.VeterinarianID)
	}
	if f.StartDate != nil {
		add("date >= $%d::date", *f.StartDate)
	}
	if f.EndDate != nil {
		add("date <= $%d::date", *f.EndDate)
	}
	if f.Attended != nil {
		add("attended = $%d", *f.Attended)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM consultations"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s%s ORDER BY date, time NULLS LAST, id LIMIT $%d OFFSET $%d",
		selectConsultation, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *c)
	}
	return result, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, req CreateConsultationRequest, date string, registeredBy *int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO consultations
		 (reason, description, date, time, symptoms, treatment, attended, pet_id, veterinarian_id, registered_by)
		 VALUES ($1, $2, $3::date, $4::time, $5, $6, $7, $8, $9, $10) RETURNING id`,
		req.Reason, req.Description, date, req.Time, req.Symptoms, req.Treatment,
		req.Attended, req.PetID, req.VeterinarianID, registeredBy,
	).Scan(&id)
	return id, err
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates Updates) error {
	query := "UPDATE consultations SET id = id"
	var args []any
	set := func(col, cast string, val any) {
		args = append(args, val)
		query += fmt.Sprintf(", %s = $%d%s", col, len(args), cast)
	}
	if updates.Reason != nil {
		set("reason", "", *updates.Reason)
	}
	if updates.Description != nil {
		set("description", "", *updates.Description)
	}
	if updates.Date != nil {
		set("date", "::date", *updates.Date)
	}
	if updates.Time != nil {
		set("time", "::time", *updates.Time)
	}
	if updates.Symptoms != nil {
		set("symptoms", "", *updates.Symptoms)
	}
	if updates.Treatment != nil {
		set("treatment", "", *updates.Treatment)
	}
	if updates.Attended != nil {
		set("attended", "", *updates.Attended)
	}
	if updates.PetID != nil {
		set("pet_id", "", *updates.PetID)
	}
	if updates.VeterinarianID != nil {
		set("veterinarian_id", "", *updates.VeterinarianID)
	}
	query += fmt.Sprintf(" WHERE id = $%d", len(args)+1)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM consultations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) VeterinarianExists(ctx context.Context, vetID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM veterinarians WHERE id = $1)", vetID).Scan(&exists)
	return exists, err
}

func (r *PGRepository) PetExists(ctx context.Context, petID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM pets WHERE id = $1)", petID).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsultation(row rowScanner) (*Consultation, error) {
	var c Consultation
	var description, timeOfDay, symptoms, treatment pgtype.Text
	var attended pgtype.Bool
	var petID, registeredBy pgtype.Int8
	err := row.Scan(&c.ID, &c.Reason, &description, &c.Date, &timeOfDay,
		&symptoms, &treatment, &attended, &petID, &c.VeterinarianID, &registeredBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if description.Valid {
		v := description.String
		c.Description = &v
	}
	if timeOfDay.Valid {
		v := timeOfDay.String
		c.Time = &v
	}
	if symptoms.Valid {
		v := symptoms.String
		c.Symptoms = &v
	}
	if treatment.Valid {
		v := treatment.String
		c.Treatment = &v
	}
	if attended.Valid {
		v := attended.Bool
		c.Attended = &v
	}
	if petID.Valid {
		v := petID.Int64
		c.PetID = &v
	}
	if registeredBy.Valid {
		v := registeredBy.Int64
		c.RegisteredBy = &v
	}
	return &c, nil
}

var _ Repository = (*PGRepository)(nil)
