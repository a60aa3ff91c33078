// Package service implements chat lead intake and soft-strategy matching.
package service

import (
	"context"
	"sort"
	"time"

	"rentmatch_backend/internal/events"
	"rentmatch_backend/internal/matching"
	"rentmatch_backend/internal/whatsappleads/repository"
	"rentmatch_backend/platform/logger"
	"rentmatch_backend/platform/phone"

	"github.com/google/uuid"
)

// Statuses a chat lead moves through.
const (
	StatusNew     = "new"
	StatusMatched = "matched"
	StatusLinked  = "linked"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, lead repository.WhatsAppLead) (repository.WhatsAppLead, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (repository.WhatsAppLead, error)
	List(ctx context.Context, organizationID uuid.UUID) ([]repository.WhatsAppLead, error)
	LinkLead(ctx context.Context, organizationID, id, leadID uuid.UUID) (repository.WhatsAppLead, error)
	ReplaceMatches(ctx context.Context, whatsappLeadID uuid.UUID, results []matching.MatchResult) error
	Matches(ctx context.Context, whatsappLeadID uuid.UUID) ([]repository.SavedMatch, error)
}

// PropertySource loads candidate listings in the engine's input shape.
type PropertySource interface {
	ActiveCandidates(ctx context.Context, organizationID uuid.UUID) ([]matching.Property, error)
}

// WeightsSource loads the org's weight overrides.
type WeightsSource interface {
	Weights(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy) (matching.Weights, error)
}

// MatchScheduler enqueues background match recomputation for a chat lead.
type MatchScheduler interface {
	EnqueueLeadMatch(ctx context.Context, organizationID, whatsappLeadID uuid.UUID) error
}

// Service implements chat lead use cases.
type Service struct {
	repo       Store
	properties PropertySource
	weights    WeightsSource
	scheduler  MatchScheduler
	bus        events.Bus
	vocab      matching.Vocabulary
	log        *logger.Logger
}

// New creates the whatsapp leads service. The scheduler is optional; without
// it, matching only runs on demand.
func New(repo Store, properties PropertySource, weights WeightsSource, scheduler MatchScheduler, bus events.Bus, vocab matching.Vocabulary, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		properties: properties,
		weights:    weights,
		scheduler:  scheduler,
		bus:        bus,
		vocab:      vocab,
		log:        log,
	}
}

// Intake stores a chat-derived lead, publishes WhatsAppLeadReceived and
// enqueues a background match run.
func (s *Service) Intake(ctx context.Context, lead repository.WhatsAppLead) (repository.WhatsAppLead, error) {
	lead.Phone = phone.NormalizeE164(lead.Phone)
	if lead.Status == "" {
		lead.Status = StatusNew
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return repository.WhatsAppLead{}, err
	}

	s.bus.Publish(ctx, events.WhatsAppLeadReceived{
		BaseEvent:      events.NewBaseEvent(),
		WhatsAppLeadID: created.ID,
		TenantID:       created.OrganizationID,
		Phone:          created.Phone,
		LinkedLeadID:   created.LinkedLeadID,
	})

	if s.scheduler != nil {
		if err := s.scheduler.EnqueueLeadMatch(ctx, created.OrganizationID, created.ID); err != nil {
			// Intake must not fail because the queue is down; matching can
			// still run on demand.
			s.log.Error("enqueue whatsapp match failed", "error", err, "whatsappLeadId", created.ID)
		}
	}
	return created, nil
}

// Get retrieves one chat lead.
func (s *Service) Get(ctx context.Context, organizationID, id uuid.UUID) (repository.WhatsAppLead, error) {
	return s.repo.GetByID(ctx, organizationID, id)
}

// List retrieves the org's chat leads.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID) ([]repository.WhatsAppLead, error) {
	return s.repo.List(ctx, organizationID)
}

// LinkLead attaches a portal lead to the chat lead so match runs persist.
func (s *Service) LinkLead(ctx context.Context, organizationID, id, leadID uuid.UUID) (repository.WhatsAppLead, error) {
	return s.repo.LinkLead(ctx, organizationID, id, leadID)
}

// FindMatches scores the chat lead against the org's active listings under
// the soft strategy. Zero-score results are dropped; the rest sort by score
// descending and truncate to limit. When the chat lead is linked to a portal
// lead, the results are persisted before returning.
func (s *Service) FindMatches(ctx context.Context, organizationID, id uuid.UUID, limit int) ([]matching.MatchResult, error) {
	start := time.Now()

	lead, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	overrides, err := s.weights.Weights(ctx, organizationID, matching.StrategySoft)
	if err != nil {
		return nil, err
	}
	engine, err := matching.NewEngine(matching.StrategySoft, overrides, matching.WithVocabulary(s.vocab))
	if err != nil {
		return nil, err
	}

	candidates, err := s.properties.ActiveCandidates(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	input := ToMatchingLead(lead)
	results := make([]matching.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		result := engine.Score(input, candidate)
		if result.Score > 0 {
			results = append(results, result)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	persisted := false
	if lead.LinkedLeadID != nil {
		if err := s.repo.ReplaceMatches(ctx, lead.ID, results); err != nil {
			return nil, err
		}
		persisted = true
	}

	topScore := 0
	if len(results) > 0 {
		topScore = results[0].Score
	}
	s.bus.Publish(ctx, events.WhatsAppMatchesComputed{
		BaseEvent:      events.NewBaseEvent(),
		WhatsAppLeadID: lead.ID,
		TenantID:       lead.OrganizationID,
		LinkedLeadID:   lead.LinkedLeadID,
		ResultCount:    len(results),
		TopScore:       topScore,
		Persisted:      persisted,
	})
	s.log.MatchRun(engine.Strategy().String(), 1, len(candidates), len(results),
		float64(time.Since(start).Milliseconds()))
	return results, nil
}

// SavedMatches lists previously persisted matches for a chat lead.
func (s *Service) SavedMatches(ctx context.Context, organizationID, id uuid.UUID) ([]repository.SavedMatch, error) {
	// Scope check before reading the matches table.
	if _, err := s.repo.GetByID(ctx, organizationID, id); err != nil {
		return nil, err
	}
	return s.repo.Matches(ctx, id)
}

// ToMatchingLead maps a chat lead onto the engine's soft-strategy input.
func ToMatchingLead(lead repository.WhatsAppLead) matching.Lead {
	name := ""
	if lead.Name != nil {
		name = *lead.Name
	}
	return matching.Lead{
		ID:             lead.ID,
		FullName:       name,
		BudgetMin:      lead.BudgetMin,
		BudgetMax:      lead.BudgetMax,
		PreferredRooms: lead.Rooms,
		MoveInFrom:     lead.MoveInFrom,
		Area:           lead.Area,
		Pets:           lead.Pets,
		SafeRoom:       lead.SafeRoom,
		Balcony:        lead.Balcony,
		Furnished:      lead.Furnished,
		Features:       lead.Features,
	}
}
