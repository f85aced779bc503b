package pets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinivet/clinivet/internal/shared"
)

// Filter narrows pet listings.
type Filter struct {
	OwnerID *int64
}

// Updates carries the optional column changes for an update.
type Updates struct {
	Name    *string
	Species *string
	Breed   *string
	Age     *int
	OwnerID *int64
}

// Repository defines persistence operations for pet records.
type Repository interface {
	Get(ctx context.Context, id int64) (*Pet, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]Pet, int, error)
	Create(ctx context.Context, req CreatePetRequest, registeredBy *int64) (int64, error)
	Update(ctx context.Context, id int64, updates Updates) error
	Delete(ctx context.Context, id int64) error
	OwnerExists(ctx context.Context, ownerID int64) (bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const selectPet = "SELECT id, name, species, breed, age, owner_id, registered_by FROM pets"

func (r *PGRepository) Get(ctx context.Context, id int64) (*Pet, error) {
	return scanPet(r.pool.QueryRow(ctx, selectPet+" WHERE id = $1", id))
}

func (r *PGRepository) List(ctx context.Context, f Filter, limit, offset int) ([]Pet, int, error) {
	where := ""
	var filterArgs []any
	if f.OwnerID != nil {
		where = " WHERE owner_id = $1"
		filterArgs = append(filterArgs, *f.OwnerID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM pets"+where, filterArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s%s ORDER BY id LIMIT $%d OFFSET $%d", selectPet, where, len(filterArgs)+1, len(filterArgs)+2)
	rows, err := r.pool.Query(ctx, query, append(filterArgs, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *pet)
	}
	return result, total, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, req CreatePetRequest, registeredBy *int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO pets (name, species, breed, age, owner_id, registered_by)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		req.Name, req.Species, req.Breed, req.Age, req.OwnerID, registeredBy,
	).Scan(&id)
	return id, err
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates Updates) error {
	query := "UPDATE pets SET id = id"
	var args []any
	argPos := 1
	if updates.Name != nil {
		query += fmt.Sprintf(", name = $%d", argPos)
		args = append(args, *updates.Name)
		argPos++
	}
	if updates.Species != nil {
		query += fmt.Sprintf(", species = $%d", argPos)
		args = append(args, *updates.Species)
		argPos++
	}
	if updates.Breed != nil {
		query += fmt.Sprintf(", breed = $%d", argPos)
		args = append(args, *updates.Breed)
		argPos++
	}
	if updates.Age != nil {
		query += fmt.Sprintf(", age = $%d", argPos)
		args = append(args, *updates.Age)
		argPos++
	}
	if updates.OwnerID != nil {
		query += fmt.Sprintf(", owner_id = $%d", argPos)
		args = append(args, *updates.OwnerID)
		argPos++
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
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
	tag, err := r.pool.Exec(ctx, "DELETE FROM pets WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) OwnerExists(ctx context.Context, ownerID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM owners WHERE id = $1)", ownerID).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (*Pet, error) {
	var pet Pet
	var breed pgtype.Text
	var age pgtype.Int4
	var registeredBy pgtype.Int8
	err := row.Scan(&pet.ID, &pet.Name, &pet.Species, &breed, &age, &pet.OwnerID, &registeredBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
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
	if registeredBy.Valid {
		v := registeredBy.Int64
		pet.RegisteredBy = &v
	}
	return &pet, nil
}

var _ Repository = (*PGRepository)(nil)
