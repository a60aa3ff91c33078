// Package service runs strict-strategy match computations over the org's
// open leads and active listings.
package service

import (
	"context"
	"time"

	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadSource loads leads in the engine's input shape.
type LeadSource interface {
	MatchableLeads(ctx context.Context, organizationID uuid.UUID) ([]matching.Lead, error)
	MatchingLead(ctx context.Context, organizationID, id uuid.UUID) (matching.Lead, error)
}

// PropertySource loads candidate listings in the engine's input shape.
type PropertySource interface {
	ActiveCandidates(ctx context.Context, organizationID uuid.UUID) ([]matching.Property, error)
	MatchingProperty(ctx context.Context, organizationID, id uuid.UUID) (matching.Property, error)
}

// WeightsSource loads the org's weight overrides.
type WeightsSource interface {
	Weights(ctx context.Context, organizationID uuid.UUID, strategy matching.Strategy) (matching.Weights, error)
}

// RunSummary reports what a match run looked at and produced.
type RunSummary struct {
	Leads        int `json:"leads"`
	Properties   int `json:"properties"`
	Results      int `json:"results"`
	Qualified    int `json:"qualified"`
	Disqualified int `json:"disqualified"`
}

// Service computes strict matches for an organization.
type Service struct {
	leads      LeadSource
	properties PropertySource
	weights    WeightsSource
	vocab      matching.Vocabulary
	log        *logger.Logger
}

// New creates the matches service.
func New(leads LeadSource, properties PropertySource, weights WeightsSource, vocab matching.Vocabulary, log *logger.Logger) *Service {
	return &Service{
		leads:      leads,
		properties: properties,
		weights:    weights,
		vocab:      vocab,
		log:        log,
	}
}

// Run scores every open lead against every active listing under the strict
// strategy with the org's weight overrides applied. Disqualified pairs sort
// last; limit <= 0 returns everything.
func (s *Service) Run(ctx context.Context, organizationID uuid.UUID, limit int) ([]matching.MatchResult, RunSummary, error) {
	start := time.Now()

	overrides, err := s.weights.Weights(ctx, organizationID, matching.StrategyStrict)
	if err != nil {
		return nil, RunSummary{}, err
	}
	engine, err := matching.NewEngine(matching.StrategyStrict, overrides, matching.WithVocabulary(s.vocab))
	if err != nil {
		return nil, RunSummary{}, err
	}

	leads, err := s.leads.MatchableLeads(ctx, organizationID)
	if err != nil {
		return nil, RunSummary{}, err
	}
	properties, err := s.properties.ActiveCandidates(ctx, organizationID)
	if err != nil {
		return nil, RunSummary{}, err
	}

	results, err := engine.RankAll(ctx, leads, properties, limit)
	if err != nil {
		return nil, RunSummary{}, err
	}

	summary := RunSummary{
		Leads:      len(leads),
		Properties: len(properties),
		Results:    len(results),
	}
	for _, result := range results {
		if result.IsDisqualified {
			summary.Disqualified++
		} else {
			summary.Qualified++
		}
	}

	s.log.MatchRun(engine.Strategy().String(), len(leads), len(properties), len(results),
		float64(time.Since(start).Milliseconds()))
	return results, summary, nil
}

// ScorePair computes the full explained result for one lead/property pair.
func (s *Service) ScorePair(ctx context.Context, organizationID, leadID, propertyID uuid.UUID) (matching.MatchResult, error) {
	overrides, err := s.weights.Weights(ctx, organizationID, matching.StrategyStrict)
	if err != nil {
		return matching.MatchResult{}, err
	}
	engine, err := matching.NewEngine(matching.StrategyStrict, overrides, matching.WithVocabulary(s.vocab))
	if err != nil {
		return matching.MatchResult{}, err
	}

	lead, err := s.leads.MatchingLead(ctx, organizationID, leadID)
	if err != nil {
		return matching.MatchResult{}, err
	}
	prop, err := s.properties.MatchingProperty(ctx, organizationID, propertyID)
	if err != nil {
		return matching.MatchResult{}, err
	}
	return engine.Score(lead, prop), nil
}
