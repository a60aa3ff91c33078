package matching

import (
	"fmt"
	"sort"

	"rentmatch_backend/platform/apperr"
)

// Weights maps factor key -> non-negative weight. Weights need not sum to 1;
// the aggregator normalizes by the sum of the weights actually used. A zero
// weight disables its factor without special-case code.
type Weights map[string]float64

// Factor keys recognized by the strict strategy.
const (
	FactorPrice     = "price"
	FactorLocation  = "location"
	FactorRooms     = "rooms"
	FactorAmenities = "amenities"
	FactorMoveIn    = "moveIn"
)

// Factor keys recognized by the soft strategy. Location, rooms and amenities
// are shared; budget and availability replace price and moveIn.
const (
	FactorBudget       = "budget"
	FactorAvailability = "availability"
)

// DefaultStrictWeights returns the default weight vector for the strict strategy.
func DefaultStrictWeights() Weights {
	return Weights{
		FactorPrice:     0.30,
		FactorLocation:  0.25,
		FactorRooms:     0.20,
		FactorAmenities: 0.15,
		FactorMoveIn:    0.10,
	}
}

// DefaultSoftWeights returns the default weight vector for the soft strategy.
func DefaultSoftWeights() Weights {
	return Weights{
		FactorLocation:     0.25,
		FactorBudget:       0.30,
		FactorRooms:        0.20,
		FactorAmenities:    0.15,
		FactorAvailability: 0.10,
	}
}

// merge returns base with every entry of overrides applied on top.
func (w Weights) merge(overrides Weights) Weights {
	merged := make(Weights, len(w))
	for key, value := range w {
		merged[key] = value
	}
	for key, value := range overrides {
		merged[key] = value
	}
	return merged
}

// validate rejects negative weights and keys the strategy does not recognize.
func (w Weights) validate(allowed []string) error {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, key := range allowed {
		allowedSet[key] = struct{}{}
	}

	keys := make([]string, 0, len(w))
	for key := range w {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := allowedSet[key]; !ok {
			return apperr.Validation(fmt.Sprintf("unknown weight key %q", key))
		}
		if w[key] < 0 {
			return apperr.Validation(fmt.Sprintf("weight %q must be non-negative", key))
		}
	}
	return nil
}
