package service

import (
	"context"
	"testing"

	"rentmatch_backend/internal/matching"
	"rentmatch_backend/platform/apperr"
	"rentmatch_backend/platform/logger"

	"github.com/google/uuid"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

type stubLeads struct {
	leads []matching.Lead
}

func (s *stubLeads) MatchableLeads(_ context.Context, _ uuid.UUID) ([]matching.Lead, error) {
	return s.leads, nil
}

func (s *stubLeads) MatchingLead(_ context.Context, _, id uuid.UUID) (matching.Lead, error) {
	for _, lead := range s.leads {
		if lead.ID == id {
			return lead, nil
		}
	}
	return matching.Lead{}, apperr.NotFound("lead not found")
}

type stubProperties struct {
	properties []matching.Property
}

func (s *stubProperties) ActiveCandidates(_ context.Context, _ uuid.UUID) ([]matching.Property, error) {
	return s.properties, nil
}

func (s *stubProperties) MatchingProperty(_ context.Context, _, id uuid.UUID) (matching.Property, error) {
	for _, p := range s.properties {
		if p.ID == id {
			return p, nil
		}
	}
	return matching.Property{}, apperr.NotFound("property not found")
}

type stubWeights struct {
	weights matching.Weights
}

func (s *stubWeights) Weights(_ context.Context, _ uuid.UUID, _ matching.Strategy) (matching.Weights, error) {
	return s.weights, nil
}

func newTestService(leads []matching.Lead, properties []matching.Property, overrides matching.Weights) *Service {
	return New(
		&stubLeads{leads: leads},
		&stubProperties{properties: properties},
		&stubWeights{weights: overrides},
		matching.DefaultVocabulary(),
		logger.New("test"),
	)
}

func TestRun_SummaryCounts(t *testing.T) {
	leadID := uuid.New()
	qualified := matching.Property{ID: uuid.New(), City: "חיפה", Price: i64(5000), Rooms: f64(3), Amenities: map[string]bool{"mamad": true}}
	disqualified := matching.Property{ID: uuid.New(), City: "חיפה", Price: i64(5000), Rooms: f64(3)}
	lead := matching.Lead{
		ID:              leadID,
		BudgetMax:       i64(6000),
		PreferredCities: []string{"חיפה"},
		PreferredRooms:  f64(3),
		Required:        map[string]bool{"mamad": true},
	}

	svc := newTestService([]matching.Lead{lead}, []matching.Property{qualified, disqualified}, nil)

	results, summary, err := svc.Run(context.Background(), uuid.New(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Leads != 1 || summary.Properties != 2 || summary.Results != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Qualified != 1 || summary.Disqualified != 1 {
		t.Fatalf("unexpected qualification counts: %+v", summary)
	}
	if results[0].PropertyID != qualified.ID {
		t.Fatal("qualified pair should rank first")
	}
	if !results[1].IsDisqualified {
		t.Fatal("disqualified pair should rank last")
	}
}

func TestRun_AppliesWeightOverrides(t *testing.T) {
	leadID := uuid.New()
	lead := matching.Lead{ID: leadID, PreferredCities: []string{"חיפה"}}
	prop := matching.Property{ID: uuid.New(), City: "תל אביב"}

	// Location-only scoring: the wrong city scores 0.
	overrides := matching.Weights{
		matching.FactorPrice:     0,
		matching.FactorLocation:  1,
		matching.FactorRooms:     0,
		matching.FactorAmenities: 0,
		matching.FactorMoveIn:    0,
	}
	svc := newTestService([]matching.Lead{lead}, []matching.Property{prop}, overrides)

	results, _, err := svc.Run(context.Background(), uuid.New(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Score != 0 {
		t.Fatalf("expected score 0 under location-only weights, got %d", results[0].Score)
	}
}

func TestRun_InvalidOverridesFail(t *testing.T) {
	svc := newTestService(nil, nil, matching.Weights{"bogus": 1})

	if _, _, err := svc.Run(context.Background(), uuid.New(), 0); err == nil {
		t.Fatal("expected validation error for unknown weight key")
	}
}

func TestScorePair(t *testing.T) {
	lead := matching.Lead{ID: uuid.New(), BudgetMin: i64(4000), BudgetMax: i64(6000), PreferredCities: []string{"חיפה"}, PreferredRooms: f64(3)}
	prop := matching.Property{ID: uuid.New(), City: "חיפה", Price: i64(5000), Rooms: f64(3)}
	svc := newTestService([]matching.Lead{lead}, []matching.Property{prop}, nil)

	result, err := svc.ScorePair(context.Background(), uuid.New(), lead.ID, prop.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LeadID != lead.ID || result.PropertyID != prop.ID {
		t.Fatal("result should carry the pair identifiers")
	}
	if len(result.Breakdown) != 5 {
		t.Fatalf("expected a full breakdown, got %d entries", len(result.Breakdown))
	}

	if _, err := svc.ScorePair(context.Background(), uuid.New(), uuid.New(), prop.ID); err == nil {
		t.Fatal("unknown lead should error")
	}
}
