// Package repository persists user accounts in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentmatch_backend/platform/apperr"
)

// User is the persistence model for an account.
type User struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Email          string
	PasswordHash   string
	Roles          []string
	CreatedAt      string
	UpdatedAt      string
}

// Repo implements user persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `
	id, organization_id, email, password_hash, roles, created_at, updated_at`

// GetByEmail looks up a user by email for credential checks.
func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1)`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetByID looks up a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// Create inserts a new user account.
func (r *Repo) Create(ctx context.Context, u User) (User, error) {
	query := `
		INSERT INTO users (organization_id, email, password_hash, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		u.OrganizationID, u.Email, u.PasswordHash, u.Roles,
	))
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// CreateOrganization inserts an organization and returns its ID.
// Used by the development seed flow only.
func (r *Repo) CreateOrganization(ctx context.Context, name string) (uuid.UUID, error) {
	query := `
		INSERT INTO organizations (name)
		VALUES ($1)
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("create organization: %w", err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&u.ID, &u.OrganizationID, &u.Email, &u.PasswordHash, &u.Roles,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return User{}, err
	}

	u.CreatedAt = createdAt.Format(time.RFC3339)
	u.UpdatedAt = updatedAt.Format(time.RFC3339)
	return u, nil
}
