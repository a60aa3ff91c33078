package matching

import "testing"

func TestEvaluateConstraints(t *testing.T) {
	lead := Lead{Required: map[string]bool{
		"mamad":   true,
		"parking": true,
		"balcony": false,
	}}
	prop := Property{Amenities: map[string]bool{"parking": true}}

	disqualified, unmet, checks := evaluateConstraints(lead, prop)
	if !disqualified {
		t.Fatal("missing mamad should disqualify")
	}
	if len(unmet) != 1 || unmet[0] != "mamad" {
		t.Fatalf("unexpected unmet list: %v", unmet)
	}
	// balcony:false is not a requirement, so only two checks run.
	if len(checks) != 2 {
		t.Fatalf("expected 2 mandatory checks, got %d", len(checks))
	}
	for _, check := range checks {
		if !check.IsMandatory {
			t.Fatal("constraint checks must be flagged mandatory")
		}
	}
}

func TestEvaluateConstraints_NoRequirements(t *testing.T) {
	disqualified, unmet, checks := evaluateConstraints(Lead{}, Property{})
	if disqualified {
		t.Fatal("no requirements cannot disqualify")
	}
	if len(unmet) != 0 || len(checks) != 0 {
		t.Fatalf("expected empty results, got unmet=%v checks=%v", unmet, checks)
	}
}

func TestEvaluateConstraints_LegacyAttrs(t *testing.T) {
	lead := Lead{Required: map[string]bool{"pets_allowed": true}}
	prop := Property{Attrs: map[string]bool{"pets_allowed": true}}

	disqualified, unmet, _ := evaluateConstraints(lead, prop)
	if disqualified || len(unmet) != 0 {
		t.Fatal("flat attribute should satisfy a mandatory requirement")
	}
}
