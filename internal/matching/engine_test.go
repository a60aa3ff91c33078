package matching

import (
	"reflect"
	"testing"

	"rentmatch_backend/platform/apperr"

	"github.com/google/uuid"
)

func i64(v int64) *int64       { return &v }
func f64(v float64) *float64   { return &v }
func strPtr(v string) *string  { return &v }
func boolPtr(v bool) *bool     { return &v }

func exampleLead() Lead {
	return Lead{
		ID:              uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		BudgetMin:       i64(4000),
		BudgetMax:       i64(6000),
		PreferredCities: []string{"Tel Aviv"},
		PreferredRooms:  f64(3),
		Required:        map[string]bool{"mamad": true},
	}
}

func exampleProperty() Property {
	return Property{
		ID:        uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		City:      "Tel Aviv",
		Price:     i64(5500),
		Rooms:     f64(3),
		Amenities: map[string]bool{"mamad": true},
	}
}

func breakdownScore(t *testing.T, result MatchResult, factor string) int {
	t.Helper()
	for _, entry := range result.Breakdown {
		if entry.Factor == factor {
			return entry.Score
		}
	}
	t.Fatalf("breakdown has no %q entry", factor)
	return 0
}

func TestComputeMatchScore_EndToEnd(t *testing.T) {
	result, err := ComputeMatchScore(exampleLead(), exampleProperty(), DefaultStrictWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsDisqualified {
		t.Fatal("pair should not be disqualified")
	}
	if got := breakdownScore(t, result, FactorPrice); got != 100 {
		t.Fatalf("expected price score 100, got %d", got)
	}
	if got := breakdownScore(t, result, FactorLocation); got != 100 {
		t.Fatalf("expected location score 100, got %d", got)
	}
	if got := breakdownScore(t, result, FactorRooms); got != 100 {
		t.Fatalf("expected rooms score 100, got %d", got)
	}
	// price 1.0, location 1.0, rooms 1.0, amenities 1.0, moveIn neutral 0.5
	// => round(100 * 0.95) = 95
	if result.Percentage != 95 {
		t.Fatalf("expected percentage 95, got %d", result.Percentage)
	}
	if result.Score != 95 {
		t.Fatalf("expected score 95, got %d", result.Score)
	}
}

func TestComputeMatchScore_Idempotent(t *testing.T) {
	first, err := ComputeMatchScore(exampleLead(), exampleProperty(), DefaultStrictWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ComputeMatchScore(exampleLead(), exampleProperty(), DefaultStrictWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs should produce identical results")
	}
}

func TestComputeMatchScore_DisqualifiedCollapsesScoreOnly(t *testing.T) {
	prop := exampleProperty()
	prop.Amenities = map[string]bool{}

	result, err := ComputeMatchScore(exampleLead(), prop, DefaultStrictWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsDisqualified {
		t.Fatal("missing mandatory amenity should disqualify")
	}
	if result.Score != 0 {
		t.Fatalf("disqualified score should be 0, got %d", result.Score)
	}
	if result.Percentage == 0 {
		t.Fatal("percentage should keep the un-collapsed weighted result")
	}
	if len(result.DisqualifyingReasons) != 1 {
		t.Fatalf("expected 1 disqualifying reason, got %d", len(result.DisqualifyingReasons))
	}
	if len(result.Breakdown) != 5 {
		t.Fatalf("breakdown must stay complete for disqualified pairs, got %d entries", len(result.Breakdown))
	}

	foundCheck := false
	for _, reason := range result.Reasons {
		if reason.IsMandatory && !reason.Matches {
			foundCheck = true
		}
	}
	if !foundCheck {
		t.Fatal("expected a failed mandatory check in reasons")
	}
}

func TestComputeMatchScore_DisqualifiedRegardlessOfWeights(t *testing.T) {
	prop := exampleProperty()
	prop.Amenities = map[string]bool{}

	weights := Weights{
		FactorPrice:     10,
		FactorLocation:  10,
		FactorRooms:     10,
		FactorAmenities: 0,
		FactorMoveIn:    0,
	}
	result, err := ComputeMatchScore(exampleLead(), prop, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsDisqualified || result.Score != 0 {
		t.Fatalf("disqualification must not depend on weights, got disqualified=%v score=%d",
			result.IsDisqualified, result.Score)
	}
}

func TestNewEngine_RejectsNegativeWeight(t *testing.T) {
	_, err := NewEngine(StrategyStrict, Weights{FactorPrice: -0.1})
	if err == nil {
		t.Fatal("expected validation error for negative weight")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
}

func TestNewEngine_RejectsUnknownKey(t *testing.T) {
	_, err := NewEngine(StrategyStrict, Weights{"availability": 0.1})
	if err == nil {
		t.Fatal("strict strategy should reject the soft-only availability key")
	}
}

func TestNewEngine_OverridesMergeOverDefaults(t *testing.T) {
	engine, err := NewEngine(StrategySoft, Weights{FactorBudget: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	weights := engine.Weights()
	if weights[FactorBudget] != 0.5 {
		t.Fatalf("expected overridden budget weight 0.5, got %v", weights[FactorBudget])
	}
	if weights[FactorLocation] != 0.25 {
		t.Fatalf("expected default location weight 0.25, got %v", weights[FactorLocation])
	}
}

func TestScore_RangeInvariant(t *testing.T) {
	strict, err := NewEngine(StrategyStrict, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	soft, err := NewEngine(StrategySoft, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leads := []Lead{
		{},
		exampleLead(),
		{BudgetMin: i64(9000), BudgetMax: i64(9500), PreferredCities: []string{"חיפה"}},
		{Required: map[string]bool{"parking": true, "elevator": true}},
		{Area: strPtr("קרית ים"), BudgetMax: i64(4000), Pets: boolPtr(true), Features: []string{"חניה", "מעלית"}},
		{MoveInFrom: strPtr("not-a-date")},
	}
	props := []Property{
		{},
		exampleProperty(),
		{City: "קרית ביאליק", Price: i64(12000), Rooms: f64(5.5), AvailableFrom: strPtr("2025-03-01")},
		{City: "חיפה", Attrs: map[string]bool{"pets_allowed": true}},
	}

	for _, engine := range []*Engine{strict, soft} {
		for _, lead := range leads {
			for _, prop := range props {
				result := engine.Score(lead, prop)
				if result.Percentage < 0 || result.Percentage > 100 {
					t.Fatalf("%s: percentage out of range: %d", engine.Strategy(), result.Percentage)
				}
				if result.Score < 0 || result.Score > 100 {
					t.Fatalf("%s: score out of range: %d", engine.Strategy(), result.Score)
				}
			}
		}
	}
}

func TestScore_SoftNeverDisqualifies(t *testing.T) {
	engine, err := NewEngine(StrategySoft, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lead := Lead{Required: map[string]bool{"mamad": true}}
	result := engine.Score(lead, Property{City: "חיפה"})
	if result.IsDisqualified {
		t.Fatal("soft strategy must never disqualify")
	}
	if len(result.DisqualifyingReasons) != 0 {
		t.Fatalf("expected no disqualifying reasons, got %v", result.DisqualifyingReasons)
	}
}

func TestScore_ZeroWeightDisablesFactor(t *testing.T) {
	engine, err := NewEngine(StrategyStrict, Weights{FactorMoveIn: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := engine.Score(exampleLead(), exampleProperty())
	// price/location/rooms/amenities all 1.0 and moveIn disabled => 100
	if result.Percentage != 100 {
		t.Fatalf("expected percentage 100 with moveIn disabled, got %d", result.Percentage)
	}
}
