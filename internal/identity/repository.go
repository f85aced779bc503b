package identity

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

// Repository defines persistence operations for user accounts.
type Repository interface {
	Get(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user User) (int64, error)
	Update(ctx context.Context, id int64, updates AccountUpdates) error
	Delete(ctx context.Context, id int64) error
}

// AccountUpdates lists the mutable account fields; nil means leave unchanged.
type AccountUpdates struct {
	Email        *string
	PasswordHash *string
	Phone        *string
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

const userColumns = "id, email, password_hash, phone, is_staff, is_superuser, is_active, created_at, updated_at"

func (r *PGRepository) Get(ctx context.Context, id int64) (*User, error) {
	row := r.q(ctx).QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.q(ctx).QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email)
	return scanUser(row)
}

func (r *PGRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.q(ctx).QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))", email).Scan(&taken)
	return taken, err
}

func (r *PGRepository) Create(ctx context.Context, user User) (int64, error) {
	var id int64
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO users (email, password_hash, phone, is_staff, is_superuser, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, user.Email, user.PasswordHash, user.Phone, user.IsStaff, user.IsSuperuser, user.IsActive).Scan(&id)
	return id, err
}

func (r *PGRepository) Update(ctx context.Context, id int64, updates AccountUpdates) error {
	query := "UPDATE users SET updated_at = NOW()"
	var args []any
	argPos := 1

	if updates.Email != nil {
		query += fmt.Sprintf(", email = $%d", argPos)
		args = append(args, *updates.Email)
		argPos++
	}
	if updates.PasswordHash != nil {
		query += fmt.Sprintf(", password_hash = $%d", argPos)
		args = append(args, *updates.PasswordHash)
		argPos++
	}
	if updates.Phone != nil {
		query += fmt.Sprintf(", phone = $%d", argPos)
		args = append(args, *updates.Phone)
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
	tag, err := r.q(ctx).Exec(ctx, "DELETE FROM users WHERE id = $1", id)
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

func scanUser(row rowScanner) (*User, error) {
	var u User
	var phone pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &phone, &u.IsStaff, &u.IsSuperuser, &u.IsActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if phone.Valid {
		v := phone.String
		u.Phone = &v
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
