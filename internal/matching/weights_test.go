package matching

import "testing"

func TestDefaultWeights(t *testing.T) {
	strict := DefaultStrictWeights()
	if len(strict) != 5 {
		t.Fatalf("expected 5 strict factors, got %d", len(strict))
	}
	if strict[FactorPrice] != 0.30 || strict[FactorMoveIn] != 0.10 {
		t.Fatalf("unexpected strict defaults: %v", strict)
	}

	soft := DefaultSoftWeights()
	if len(soft) != 5 {
		t.Fatalf("expected 5 soft factors, got %d", len(soft))
	}
	if soft[FactorBudget] != 0.30 || soft[FactorAvailability] != 0.10 {
		t.Fatalf("unexpected soft defaults: %v", soft)
	}
}

func TestWeightsMerge(t *testing.T) {
	base := DefaultStrictWeights()
	merged := base.merge(Weights{FactorPrice: 0.5})

	if merged[FactorPrice] != 0.5 {
		t.Fatalf("override not applied: %v", merged[FactorPrice])
	}
	if merged[FactorLocation] != 0.25 {
		t.Fatalf("untouched key changed: %v", merged[FactorLocation])
	}
	if base[FactorPrice] != 0.30 {
		t.Fatal("merge must not mutate the base")
	}
}

func TestWeightsValidate(t *testing.T) {
	allowed := strictDescriptor().weightKeys()

	if err := DefaultStrictWeights().validate(allowed); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if err := (Weights{FactorPrice: -1}).validate(allowed); err == nil {
		t.Fatal("negative weight should fail")
	}
	if err := (Weights{"bogus": 0.1}).validate(allowed); err == nil {
		t.Fatal("unknown key should fail")
	}
	if err := (Weights{FactorPrice: 0}).validate(allowed); err != nil {
		t.Fatalf("zero weight is allowed: %v", err)
	}
}
