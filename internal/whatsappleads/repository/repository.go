// Package repository persists chat-derived leads and their saved soft
// matches in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/apperr"
)

const whatsappLeadNotFoundMessage = "whatsapp lead not found"

// WhatsAppLead is the persistence model for a chat-derived lead. Preferences
// are extracted from the conversation, so every field beyond the phone number
// is optional.
type WhatsAppLead struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Phone          string
	Name           *string
	Area           *string
	BudgetMin      *int64
	BudgetMax      *int64
	Rooms          *float64
	MoveInFrom     *string
	Pets           *bool
	SafeRoom       *bool
	Balcony        *bool
	Furnished      *bool
	Features       []string
	RawMessage     *string
	LinkedLeadID   *uuid.UUID
	Status         string
	CreatedAt      string
	UpdatedAt      string
}

// SavedMatch is one persisted soft-match result for a chat lead.
type SavedMatch struct {
	ID             uuid.UUID
	WhatsAppLeadID uuid.UUID
	PropertyID     uuid.UUID
	Score          int
	Percentage     int
	Breakdown      []matching.FactorBreakdown
	CreatedAt      string
}

// Repo implements chat lead persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new whatsapp leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const whatsappLeadColumns = `
	id, organization_id, phone, name, area, budget_min, budget_max, rooms,
	move_in_from, pets, safe_room, balcony, furnished, features, raw_message,
	linked_lead_id, status, created_at, updated_at`

// Create inserts a new chat lead and returns it with generated fields.
func (r *Repo) Create(ctx context.Context, lead WhatsAppLead) (WhatsAppLead, error) {
	query := `
		INSERT INTO whatsapp_leads (
			organization_id, phone, name, area, budget_min, budget_max, rooms,
			move_in_from, pets, safe_room, balcony, furnished, features,
			raw_message, linked_lead_id, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + whatsappLeadColumns

	row := r.pool.QueryRow(ctx, query,
		lead.OrganizationID, lead.Phone, lead.Name, lead.Area, lead.BudgetMin, lead.BudgetMax, lead.Rooms,
		lead.MoveInFrom, lead.Pets, lead.SafeRoom, lead.Balcony, lead.Furnished, lead.Features,
		lead.RawMessage, lead.LinkedLeadID, lead.Status,
	)
	created, err := scanWhatsAppLead(row)
	if err != nil {
		return WhatsAppLead{}, fmt.Errorf("create whatsapp lead: %w", err)
	}
	return created, nil
}

// GetByID retrieves a chat lead scoped to the organization.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (WhatsAppLead, error) {
	query := `
		SELECT ` + whatsappLeadColumns + `
		FROM whatsapp_leads
		WHERE id = $1 AND organization_id = $2`

	lead, err := scanWhatsAppLead(r.pool.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WhatsAppLead{}, apperr.NotFound(whatsappLeadNotFoundMessage)
		}
		return WhatsAppLead{}, fmt.Errorf("get whatsapp lead by id: %w", err)
	}
	return lead, nil
}

// List retrieves chat leads for the organization, newest first.
func (r *Repo) List(ctx context.Context, organizationID uuid.UUID) ([]WhatsAppLead, error) {
	query := `
		SELECT ` + whatsappLeadColumns + `
		FROM whatsapp_leads
		WHERE organization_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list whatsapp leads: %w", err)
	}
	defer rows.Close()

	leads := make([]WhatsAppLead, 0)
	for rows.Next() {
		lead, err := scanWhatsAppLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan whatsapp lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate whatsapp leads: %w", err)
	}
	return leads, nil
}

// LinkLead attaches a portal lead to the chat lead.
func (r *Repo) LinkLead(ctx context.Context, organizationID, id, leadID uuid.UUID) (WhatsAppLead, error) {
	query := `
		UPDATE whatsapp_leads
		SET linked_lead_id = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + whatsappLeadColumns

	lead, err := scanWhatsAppLead(r.pool.QueryRow(ctx, query, id, organizationID, leadID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WhatsAppLead{}, apperr.NotFound(whatsappLeadNotFoundMessage)
		}
		return WhatsAppLead{}, fmt.Errorf("link whatsapp lead: %w", err)
	}
	return lead, nil
}

// ReplaceMatches overwrites the saved matches for a chat lead in one
// transaction.
func (r *Repo) ReplaceMatches(ctx context.Context, whatsappLeadID uuid.UUID, results []matching.MatchResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace matches: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM whatsapp_matches WHERE whatsapp_lead_id = $1`, whatsappLeadID); err != nil {
		return fmt.Errorf("clear whatsapp matches: %w", err)
	}

	insert := `
		INSERT INTO whatsapp_matches (whatsapp_lead_id, property_id, score, percentage, breakdown)
		VALUES ($1, $2, $3, $4, $5)`
	for _, result := range results {
		if _, err := tx.Exec(ctx, insert,
			whatsappLeadID, result.PropertyID, result.Score, result.Percentage, result.Breakdown); err != nil {
			return fmt.Errorf("insert whatsapp match: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace matches: %w", err)
	}
	return nil
}

// Matches lists the saved matches for a chat lead, best first.
func (r *Repo) Matches(ctx context.Context, whatsappLeadID uuid.UUID) ([]SavedMatch, error) {
	query := `
		SELECT id, whatsapp_lead_id, property_id, score, percentage, breakdown, created_at
		FROM whatsapp_matches
		WHERE whatsapp_lead_id = $1
		ORDER BY score DESC`

	rows, err := r.pool.Query(ctx, query, whatsappLeadID)
	if err != nil {
		return nil, fmt.Errorf("list whatsapp matches: %w", err)
	}
	defer rows.Close()

	matches := make([]SavedMatch, 0)
	for rows.Next() {
		var m SavedMatch
		var createdAt time.Time
		if err := rows.Scan(&m.ID, &m.WhatsAppLeadID, &m.PropertyID, &m.Score, &m.Percentage, &m.Breakdown, &createdAt); err != nil {
			return nil, fmt.Errorf("scan whatsapp match: %w", err)
		}
		m.CreatedAt = createdAt.Format(time.RFC3339)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate whatsapp matches: %w", err)
	}
	return matches, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWhatsAppLead(row rowScanner) (WhatsAppLead, error) {
	var lead WhatsAppLead
	var moveInFrom *time.Time
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&lead.ID, &lead.OrganizationID, &lead.Phone, &lead.Name, &lead.Area,
		&lead.BudgetMin, &lead.BudgetMax, &lead.Rooms, &moveInFrom,
		&lead.Pets, &lead.SafeRoom, &lead.Balcony, &lead.Furnished, &lead.Features,
		&lead.RawMessage, &lead.LinkedLeadID, &lead.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return WhatsAppLead{}, err
	}

	if moveInFrom != nil {
		formatted := moveInFrom.Format("2006-01-02")
		lead.MoveInFrom = &formatted
	}
	lead.CreatedAt = createdAt.Format(time.RFC3339)
	lead.UpdatedAt = updatedAt.Format(time.RFC3339)
	return lead, nil
}
