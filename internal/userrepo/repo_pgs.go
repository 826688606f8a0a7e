// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/pkg/dbpkg"
	"github.com/pocketbank/pocketbank/pkg/errorspkg"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns user RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO users (email, name, phone_number, hashed_password)
VALUES ($1, $2, $3, $4)
RETURNING id, email, name, phone_number, hashed_password, biometric_enabled, created_at, updated_at
`

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Email,
		arg.Name,
		arg.PhoneNumber,
		arg.HashedPassword,
	)

	var u domain.User

	err := scanUser(row, &u)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				return u, domain.ErrEmailAlreadyExists
			}
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getByEmailQuery = `
SELECT id, email, name, phone_number, hashed_password, biometric_enabled, created_at, updated_at
FROM users
WHERE email = $1
`

// GetByEmail returns the user with the given email.
func (r *RepoPGS) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByEmailQuery, email)

	var u domain.User

	err := scanUser(row, &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getQuery = `
SELECT id, email, name, phone_number, hashed_password, biometric_enabled, created_at, updated_at
FROM users
WHERE id = $1
`

// Get returns the user with the given id.
func (r *RepoPGS) Get(ctx context.Context, id string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var u domain.User

	err := scanUser(row, &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const setBiometricQuery = `
UPDATE users
SET biometric_enabled = $1, updated_at = now()
WHERE id = $2
RETURNING id, email, name, phone_number, hashed_password, biometric_enabled, created_at, updated_at
`

// SetBiometric updates the user's biometric login preference.
func (r *RepoPGS) SetBiometric(ctx context.Context, id string, enabled bool) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setBiometricQuery, enabled, id)

	var u domain.User

	err := scanUser(row, &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

func scanUser(row *sql.Row, u *domain.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PhoneNumber,
		&u.HashedPassword,
		&u.BiometricEnabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}
