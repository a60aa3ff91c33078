package matching

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func rankFixture() ([]Lead, []Property) {
	l1 := Lead{
		ID:              uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"),
		BudgetMin:       i64(4000),
		BudgetMax:       i64(6000),
		PreferredCities: []string{"חיפה"},
		PreferredRooms:  f64(3),
		Required:        map[string]bool{"mamad": true},
	}
	l2 := Lead{
		ID:              uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002"),
		BudgetMax:       i64(2000),
		PreferredCities: []string{"תל אביב"},
		PreferredRooms:  f64(5),
	}
	p1 := Property{
		ID:    uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000001"),
		City:  "חיפה",
		Price: i64(5000),
		Rooms: f64(3),
	}
	p2 := Property{
		ID:        uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002"),
		City:      "חיפה",
		Price:     i64(5000),
		Rooms:     f64(3),
		Amenities: map[string]bool{"mamad": true},
	}
	return []Lead{l1, l2}, []Property{p1, p2}
}

func TestRankAll_OrderingAndDisqualifiedLast(t *testing.T) {
	engine, err := NewEngine(StrategyStrict, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leads, props := rankFixture()

	results, err := engine.RankAll(context.Background(), leads, props, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected full cross product of 4, got %d", len(results))
	}

	// l1/p2 is the only fully qualified strong pair and must lead.
	if results[0].LeadID != leads[0].ID || results[0].PropertyID != props[1].ID {
		t.Fatalf("expected l1/p2 first, got lead=%s property=%s", results[0].LeadID, results[0].PropertyID)
	}
	// l1/p1 is disqualified (missing mamad) and must come last despite its
	// high underlying percentage.
	last := results[len(results)-1]
	if !last.IsDisqualified {
		t.Fatal("expected the disqualified pair last")
	}
	if last.LeadID != leads[0].ID || last.PropertyID != props[0].ID {
		t.Fatalf("expected l1/p1 last, got lead=%s property=%s", last.LeadID, last.PropertyID)
	}

	for i := 1; i < len(results); i++ {
		if results[i-1].IsDisqualified && !results[i].IsDisqualified {
			t.Fatal("qualified result sorted after a disqualified one")
		}
		if results[i-1].IsDisqualified == results[i].IsDisqualified &&
			results[i-1].Score < results[i].Score {
			t.Fatalf("scores not descending at index %d: %d < %d", i, results[i-1].Score, results[i].Score)
		}
	}
}

func TestRankAll_Limit(t *testing.T) {
	engine, err := NewEngine(StrategyStrict, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leads, props := rankFixture()

	results, err := engine.RankAll(context.Background(), leads, props, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results after truncation, got %d", len(results))
	}
	for _, result := range results {
		if result.IsDisqualified {
			t.Fatal("truncation should keep the top qualified pairs")
		}
	}
}

func TestRankAll_EmptyInputs(t *testing.T) {
	engine, err := NewEngine(StrategyStrict, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := engine.RankAll(context.Background(), nil, []Property{{}}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", results)
	}

	results, err = engine.RankAll(context.Background(), []Lead{{}}, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty slice, got %d results", len(results))
	}
}

func TestRankAll_Deterministic(t *testing.T) {
	engine, err := NewEngine(StrategyStrict, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leads, props := rankFixture()

	first, err := engine.RankAll(context.Background(), leads, props, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.RankAll(context.Background(), leads, props, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs should rank identically")
	}
}

func TestRankAll_CancelledContext(t *testing.T) {
	engine, err := NewEngine(StrategyStrict, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leads, props := rankFixture()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.RankAll(ctx, leads, props, 0); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
