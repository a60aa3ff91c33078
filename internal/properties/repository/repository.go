// Package repository persists rental property listings in PostgreSQL.
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

const propertyNotFoundMessage = "property not found"

// Property is the persistence model for a rental listing. Amenities is the
// canonical jsonb map; PetsAllowed is a legacy flat column kept for listings
// created before the amenities map existed.
type Property struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Title          string
	City           string
	Region         *string
	Neighborhood   *string
	Address        *string
	Price          *int64
	Rooms          *float64
	SizeSqm        *int
	AvailableFrom  *string
	Amenities      map[string]bool
	PetsAllowed    *bool
	Status         string
	CreatedAt      string
	UpdatedAt      string
}

// ListFilter narrows property listings.
type ListFilter struct {
	City     string
	MaxPrice *int64
	MinRooms *float64
	Status   string
}

// Repo implements property persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new properties repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const propertyColumns = `
	id, organization_id, title, city, region, neighborhood, address,
	price, rooms, size_sqm, available_from, amenities, pets_allowed,
	status, created_at, updated_at`

// Create inserts a new listing and returns it with generated fields.
func (r *Repo) Create(ctx context.Context, p Property) (Property, error) {
	query := `
		INSERT INTO properties (
			organization_id, title, city, region, neighborhood, address,
			price, rooms, size_sqm, available_from, amenities, pets_allowed, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + propertyColumns

	row := r.pool.QueryRow(ctx, query,
		p.OrganizationID, p.Title, p.City, p.Region, p.Neighborhood, p.Address,
		p.Price, p.Rooms, p.SizeSqm, p.AvailableFrom, p.Amenities, p.PetsAllowed, p.Status,
	)
	created, err := scanProperty(row)
	if err != nil {
		return Property{}, fmt.Errorf("create property: %w", err)
	}
	return created, nil
}

// GetByID retrieves a listing scoped to the organization.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = $1 AND organization_id = $2`

	p, err := scanProperty(r.pool.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return Property{}, fmt.Errorf("get property by id: %w", err)
	}
	return p, nil
}

// List retrieves listings for the organization, newest first.
func (r *Repo) List(ctx context.Context, organizationID uuid.UUID, filter ListFilter) ([]Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE organization_id = $1
		  AND ($2 = '' OR city = $2)
		  AND ($3::bigint IS NULL OR price IS NULL OR price <= $3)
		  AND ($4::numeric IS NULL OR rooms IS NULL OR rooms >= $4)
		  AND ($5 = '' OR status = $5)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query,
		organizationID, filter.City, filter.MaxPrice, filter.MinRooms, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

// ListActive retrieves all active listings for the organization. This is the
// candidate set for match runs.
func (r *Repo) ListActive(ctx context.Context, organizationID uuid.UUID) ([]Property, error) {
	return r.List(ctx, organizationID, ListFilter{Status: "active"})
}

// UpdateStatus transitions a listing's status.
func (r *Repo) UpdateStatus(ctx context.Context, organizationID, id uuid.UUID, status string) (Property, error) {
	query := `
		UPDATE properties
		SET status = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + propertyColumns

	p, err := scanProperty(r.pool.QueryRow(ctx, query, id, organizationID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return Property{}, fmt.Errorf("update property status: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (Property, error) {
	var p Property
	var availableFrom *time.Time
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.Title, &p.City, &p.Region, &p.Neighborhood, &p.Address,
		&p.Price, &p.Rooms, &p.SizeSqm, &availableFrom, &p.Amenities, &p.PetsAllowed,
		&p.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return Property{}, err
	}

	if availableFrom != nil {
		formatted := availableFrom.Format("2006-01-02")
		p.AvailableFrom = &formatted
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return p, nil
}

func scanProperties(rows pgx.Rows) ([]Property, error) {
	properties := make([]Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return properties, nil
}
