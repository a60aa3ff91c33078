// Package service contains the lead management use cases.
package service

import (
	"context"
	"fmt"

	"rentmatch_backend/internal/events"
	"rentmatch_backend/internal/leads/repository"
	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/apperr"
	"rentmatch_backend/platform/phone"

	"github.com/google/uuid"
)

// Statuses a lead moves through.
const (
	StatusNew       = "new"
	StatusActive    = "active"
	StatusContacted = "contacted"
	StatusClosed    = "closed"
)

var validStatuses = map[string]bool{
	StatusNew:       true,
	StatusActive:    true,
	StatusContacted: true,
	StatusClosed:    true,
}

// Timeline entry kinds.
const (
	TimelineStatusChanged = "status_changed"
	TimelineNote          = "note"
	TimelineChatMatches   = "whatsapp_matches"
)

// Store abstracts lead persistence for the service.
type Store interface {
	Create(ctx context.Context, lead repository.Lead) (repository.Lead, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context, organizationID uuid.UUID, status string) ([]repository.Lead, error)
	ListMatchable(ctx context.Context, organizationID uuid.UUID) ([]repository.Lead, error)
	UpdateStatus(ctx context.Context, organizationID, id uuid.UUID, status string) (repository.Lead, string, error)
	AddTimelineEntry(ctx context.Context, leadID uuid.UUID, kind, note string) error
	Timeline(ctx context.Context, organizationID, leadID uuid.UUID) ([]repository.TimelineEntry, error)
}

// Service implements lead management.
type Service struct {
	repo Store
	bus  events.Bus
}

// New creates the leads service.
func New(repo Store, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Create stores a new lead and publishes LeadCreated. The phone number, if
// present, is normalized to E.164 before storage.
func (s *Service) Create(ctx context.Context, lead repository.Lead) (repository.Lead, error) {
	if lead.Status == "" {
		lead.Status = StatusNew
	}
	if !validStatuses[lead.Status] {
		return repository.Lead{}, apperr.Validation("invalid lead status: " + lead.Status)
	}
	if lead.Phone != nil {
		normalized := phone.NormalizeE164(*lead.Phone)
		lead.Phone = &normalized
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return repository.Lead{}, err
	}

	source := ""
	if created.Source != nil {
		source = *created.Source
	}
	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    created.ID,
		TenantID:  created.OrganizationID,
		FullName:  created.FullName,
		Source:    source,
	})
	return created, nil
}

// Get retrieves one lead.
func (s *Service) Get(ctx context.Context, organizationID, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, organizationID, id)
}

// List retrieves leads, optionally filtered by status.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID, status string) ([]repository.Lead, error) {
	if status != "" && !validStatuses[status] {
		return nil, apperr.Validation("invalid lead status: " + status)
	}
	return s.repo.List(ctx, organizationID, status)
}

// UpdateStatus transitions a lead, records a timeline entry and publishes
// LeadStatusChanged.
func (s *Service) UpdateStatus(ctx context.Context, organizationID, id uuid.UUID, status string) (repository.Lead, error) {
	if !validStatuses[status] {
		return repository.Lead{}, apperr.Validation("invalid lead status: " + status)
	}

	lead, oldStatus, err := s.repo.UpdateStatus(ctx, organizationID, id, status)
	if err != nil {
		return repository.Lead{}, err
	}

	if err := s.repo.AddTimelineEntry(ctx, lead.ID, TimelineStatusChanged, oldStatus+" -> "+status); err != nil {
		return repository.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		TenantID:  lead.OrganizationID,
		OldStatus: oldStatus,
		NewStatus: status,
	})
	return lead, nil
}

// AddNote appends a free-text timeline entry.
func (s *Service) AddNote(ctx context.Context, organizationID, id uuid.UUID, note string) error {
	// Scope check before writing to the timeline.
	if _, err := s.repo.GetByID(ctx, organizationID, id); err != nil {
		return err
	}
	return s.repo.AddTimelineEntry(ctx, id, TimelineNote, note)
}

// RecordChatMatches writes a timeline entry when a linked chat lead's soft
// match run completes. Called from the event subscription, so the lead is
// already scoped by the publishing module.
func (s *Service) RecordChatMatches(ctx context.Context, leadID uuid.UUID, resultCount, topScore int) error {
	note := fmt.Sprintf("whatsapp matching found %d properties (top score %d)", resultCount, topScore)
	return s.repo.AddTimelineEntry(ctx, leadID, TimelineChatMatches, note)
}

// Timeline lists the lead's audit records.
func (s *Service) Timeline(ctx context.Context, organizationID, id uuid.UUID) ([]repository.TimelineEntry, error) {
	return s.repo.Timeline(ctx, organizationID, id)
}

// MatchableLeads loads the open leads as matching inputs.
func (s *Service) MatchableLeads(ctx context.Context, organizationID uuid.UUID) ([]matching.Lead, error) {
	leads, err := s.repo.ListMatchable(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]matching.Lead, len(leads))
	for i, lead := range leads {
		out[i] = ToMatchingLead(lead)
	}
	return out, nil
}

// MatchingLead loads one lead as a matching input.
func (s *Service) MatchingLead(ctx context.Context, organizationID, id uuid.UUID) (matching.Lead, error) {
	lead, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return matching.Lead{}, err
	}
	return ToMatchingLead(lead), nil
}

// ToMatchingLead maps a persisted lead onto the engine's input shape.
func ToMatchingLead(lead repository.Lead) matching.Lead {
	return matching.Lead{
		ID:              lead.ID,
		FullName:        lead.FullName,
		BudgetMin:       lead.BudgetMin,
		BudgetMax:       lead.BudgetMax,
		PreferredCities: lead.PreferredCities,
		PreferredRooms:  lead.PreferredRooms,
		MoveInFrom:      lead.MoveInFrom,
		Required:        lead.RequiredFields,
	}
}
