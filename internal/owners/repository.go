package owners

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

// Repository defines persistence operations for owner records.
type Repository interface {
	Get(ctx context.Context, id int64) (*Owner, error)
	List(ctx context.Context, limit, offset int) ([]Owner, int, error)
	Create(ctx context.Context, name, phone *string, registeredBy *int64) (int64, error)
	Update(ctx context.Context, id int64, name, phone *string) error
	Delete(ctx context.Context, id int64) error
	Pets(ctx context.Context, ownerID int64) ([]PetRef, error)
	RecentConsultations(ctx context.Context, ownerID int64, limit int) ([]ConsultationRef, error)
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

const selectOwner = "SELECT id, name, phone, registered_by FROM owners"

func (r *PGRepository) Get(ctx context.Context, id int64) (*Owner, error) {
	return scanOwner(r.q(ctx).QueryRow(ctx, selectOwner+" WHERE id = $1", id))
}

func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]Owner, int, error) {
	var total int
	if err := r.q(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM owners").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q(ctx).Query(ctx, selectOwner+" ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Owner
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *owner)
	}
	return result, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, name, phone *string, registeredBy *int64) (int64, error) {
	var id int64
	err := r.q(ctx).QueryRow(ctx,
		"INSERT INTO owners (name, phone, registered_by) VALUES ($1, $2, $3) RETURNING id",
		name, phone, registeredBy,
	).Scan(&id)
	return id, err
}

func (r *PGRepository) Update(ctx context.Context, id int64, name, phone *string) error {
	query := "UPDATE owners SET id = id"
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

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q(ctx).Exec(ctx, "DELETE FROM owners WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Pets(ctx context.Context, ownerID int64) ([]PetRef, error) {
	rows, err := r.q(ctx).Query(ctx,
		"SELECT id, name, species, breed, age FROM pets WHERE owner_id = $1 ORDER BY id",
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pets []PetRef
	for rows.Next() {
		var pet PetRef
		var breed pgtype.Text
		var age pgtype.Int4
		if err := rows.Scan(&pet.ID, &pet.Name, &pet.Species, &breed, &age); err != nil {
			return nil, err
		}
		if breed.Valid {
			v := breed.String
			pet.Breed = &v
		}
		if age.Valid {
			v := int(age.Int32)
			pet.Age = &v
		}
		pets = append(pets, pet)
	}
	return pets, rows.Err()
}

// RecentConsultations returns the latest consultations across all of an
// owner's pets, newest first.
func (r *PGRepository) RecentConsultations(ctx context.Context, ownerID int64, limit int) ([]ConsultationRef, error) {
	rows, err := r.q(ctx).Query(ctx,
		`SELECT c.id, c.reason, to_char(c.date, 'YYYY-MM-DD'), to_char(c.time, 'HH24:MI'), c.attended, c.pet_id
		 FROM consultations c
		 JOIN pets p ON p.id = c.pet_id
		 WHERE p.owner_id = $1
		 ORDER BY c.date DESC, c.time DESC NULLS LAST, c.id DESC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ConsultationRef
	for rows.Next() {
		var c ConsultationRef
		var timeOfDay pgtype.Text
		var attended pgtype.Bool
		var petID pgtype.Int8
		if err := rows.Scan(&c.ID, &c.Reason, &c.Date, &timeOfDay, &attended, &petID); err != nil {
			return nil, err
		}
		if timeOfDay.Valid {
			v := timeOfDay.String
			c.Time = &v
		}
		if attended.Valid {
			v := attended.Bool
			c.Attended = &v
		}
		if petID.Valid {
			v := petID.Int64
			c.PetID = &v
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOwner(row rowScanner) (*Owner, error) {
	var owner Owner
	var name, phone pgtype.Text
	var registeredBy pgtype.Int8
	err := row.Scan(&owner.ID, &name, &phone, &registeredBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if name.Valid {
		v := name.String
		owner.Name = &v
	}
	if phone.Valid {
		v := phone.String
		owner.Phone = &v
	}
	if registeredBy.Valid {
		v := registeredBy.Int64
		owner.RegisteredBy = &v
	}
	return &owner, nil
}

var _ Repository = (*PGRepository)(nil)
