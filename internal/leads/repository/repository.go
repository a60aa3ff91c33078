// Package repository persists renter leads in PostgreSQL.
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

const leadNotFoundMessage = "lead not found"

// Lead is the persistence model for a renter's requirement profile.
// RequiredFields maps amenity key -> mandatory flag; only true entries
// hard-disqualify candidate listings.
type Lead struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	FullName       string
	Phone          *string
	Email          *string
	Source         *string

	BudgetMin       *int64
	BudgetMax       *int64
	PreferredCities []string
	PreferredRooms  *float64
	MoveInFrom      *string
	RequiredFields  map[string]bool

	Status    string
	CreatedAt string
	UpdatedAt string
}

// TimelineEntry is one audit record on a lead.
type TimelineEntry struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Kind      string
	Note      string
	CreatedAt string
}

// Repo implements lead persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const leadColumns = `
	id, organization_id, full_name, phone, email, source,
	budget_min, budget_max, preferred_cities, preferred_rooms, move_in_from,
	required_fields, status, created_at, updated_at`

// Create inserts a new lead and returns it with generated fields.
func (r *Repo) Create(ctx context.Context, lead Lead) (Lead, error) {
	query := `
		INSERT INTO leads (
			organization_id, full_name, phone, email, source,
			budget_min, budget_max, preferred_cities, preferred_rooms, move_in_from,
			required_fields, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		lead.OrganizationID, lead.FullName, lead.Phone, lead.Email, lead.Source,
		lead.BudgetMin, lead.BudgetMax, lead.PreferredCities, lead.PreferredRooms, lead.MoveInFrom,
		lead.RequiredFields, lead.Status,
	)
	created, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return created, nil
}

// GetByID retrieves a lead scoped to the organization.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE id = $1 AND organization_id = $2`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// List retrieves leads for the organization, optionally filtered by status,
// newest first.
func (r *Repo) List(ctx context.Context, organizationID uuid.UUID, status string) ([]Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE organization_id = $1
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, organizationID, status)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// ListMatchable retrieves the leads that take part in match runs: everything
// not yet closed.
func (r *Repo) ListMatchable(ctx context.Context, organizationID uuid.UUID) ([]Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE organization_id = $1 AND status <> 'closed'
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list matchable leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// UpdateStatus transitions a lead's status and returns the previous one.
func (r *Repo) UpdateStatus(ctx context.Context, organizationID, id uuid.UUID, status string) (Lead, string, error) {
	query := `
		UPDATE leads l
		SET status = $3, updated_at = now()
		FROM (SELECT status AS old_status FROM leads WHERE id = $1 AND organization_id = $2) prev
		WHERE l.id = $1 AND l.organization_id = $2
		RETURNING ` + qualifiedLeadColumns + `, prev.old_status`

	var lead Lead
	var oldStatus string
	var moveInFrom *time.Time
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, id, organizationID, status).Scan(
		&lead.ID, &lead.OrganizationID, &lead.FullName, &lead.Phone, &lead.Email, &lead.Source,
		&lead.BudgetMin, &lead.BudgetMax, &lead.PreferredCities, &lead.PreferredRooms, &moveInFrom,
		&lead.RequiredFields, &lead.Status, &createdAt, &updatedAt, &oldStatus,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, "", apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, "", fmt.Errorf("update lead status: %w", err)
	}

	finishLead(&lead, moveInFrom, createdAt, updatedAt)
	return lead, oldStatus, nil
}

const qualifiedLeadColumns = `
	l.id, l.organization_id, l.full_name, l.phone, l.email, l.source,
	l.budget_min, l.budget_max, l.preferred_cities, l.preferred_rooms, l.move_in_from,
	l.required_fields, l.status, l.created_at, l.updated_at`

// AddTimelineEntry appends an audit record to the lead.
func (r *Repo) AddTimelineEntry(ctx context.Context, leadID uuid.UUID, kind, note string) error {
	query := `
		INSERT INTO lead_timeline (lead_id, kind, note)
		VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, leadID, kind, note); err != nil {
		return fmt.Errorf("add timeline entry: %w", err)
	}
	return nil
}

// Timeline lists the lead's audit records, newest first.
func (r *Repo) Timeline(ctx context.Context, organizationID, leadID uuid.UUID) ([]TimelineEntry, error) {
	query := `
		SELECT t.id, t.lead_id, t.kind, t.note, t.created_at
		FROM lead_timeline t
		JOIN leads l ON l.id = t.lead_id
		WHERE t.lead_id = $1 AND l.organization_id = $2
		ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, leadID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	defer rows.Close()

	entries := make([]TimelineEntry, 0)
	for rows.Next() {
		var entry TimelineEntry
		var createdAt time.Time
		if err := rows.Scan(&entry.ID, &entry.LeadID, &entry.Kind, &entry.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var lead Lead
	var moveInFrom *time.Time
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&lead.ID, &lead.OrganizationID, &lead.FullName, &lead.Phone, &lead.Email, &lead.Source,
		&lead.BudgetMin, &lead.BudgetMax, &lead.PreferredCities, &lead.PreferredRooms, &moveInFrom,
		&lead.RequiredFields, &lead.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	finishLead(&lead, moveInFrom, createdAt, updatedAt)
	return lead, nil
}

func finishLead(lead *Lead, moveInFrom *time.Time, createdAt, updatedAt time.Time) {
	if moveInFrom != nil {
		formatted := moveInFrom.Format("2006-01-02")
		lead.MoveInFrom = &formatted
	}
	lead.CreatedAt = createdAt.Format(time.RFC3339)
	lead.UpdatedAt = updatedAt.Format(time.RFC3339)
}
