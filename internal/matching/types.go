// Package matching implements the lead/property compatibility engine. It is a
// pure computation layer: callers load leads and properties, the engine scores
// every pair and explains the result. Persistence and transport live elsewhere.
package matching

import "github.com/google/uuid"

// Lead is a renter's requirement profile. Optional preferences are pointers;
// a nil preference is scoring-neutral, never an error.
type Lead struct {
	ID       uuid.UUID
	FullName string

	BudgetMin       *int64
	BudgetMax       *int64
	PreferredCities []string
	PreferredRooms  *float64
	MoveInFrom      *string

	// Required maps amenity key -> mandatory flag. Only entries with a true
	// value are consulted; the strict strategy disqualifies on unmet ones.
	Required map[string]bool

	// Chat-derived preferences, used by the soft strategy only.
	Area      *string
	Pets      *bool
	SafeRoom  *bool
	Balcony   *bool
	Furnished *bool
	Features  []string
}

// Property is a landlord's listing profile.
type Property struct {
	ID           uuid.UUID
	Title        string
	City         string
	Region       *string
	Neighborhood *string

	Price         *int64
	Rooms         *float64
	AvailableFrom *string

	// Amenities is the canonical amenity map. Attrs holds legacy flat boolean
	// columns (e.g. pets_allowed) that predate the amenities map.
	Amenities map[string]bool
	Attrs     map[string]bool
}

// HasAmenity reports whether the property has the amenity, resolving the
// amenities map first and falling back to the legacy flat attributes.
func (p Property) HasAmenity(key string) bool {
	if p.Amenities[key] {
		return true
	}
	return p.Attrs[key]
}

// Reason is one explanation record. Mandatory-requirement checks carry
// IsMandatory and Matches; factor contributions carry Impact.
type Reason struct {
	Factor      string  `json:"factor"`
	Impact      float64 `json:"impact"`
	Note        string  `json:"note"`
	IsMandatory bool    `json:"isMandatory,omitempty"`
	Matches     bool    `json:"matches,omitempty"`
}

// FactorBreakdown is one scored dimension of the result: the factor's rounded
// 0-100 score, the weight that was applied, and the evaluator's note.
type FactorBreakdown struct {
	Factor string  `json:"factor"`
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
	Note   string  `json:"note"`
}

// MatchResult is the full output for one lead/property pair. Score collapses
// to 0 when the pair is disqualified; Percentage keeps the un-collapsed
// weighted result so callers can tell "scored zero" from "disqualified".
type MatchResult struct {
	LeadID     uuid.UUID `json:"lead_id"`
	PropertyID uuid.UUID `json:"property_id"`

	Score                int               `json:"score"`
	Percentage           int               `json:"percentage"`
	IsDisqualified       bool              `json:"isDisqualified"`
	DisqualifyingReasons []string          `json:"disqualifyingReasons"`
	Breakdown            []FactorBreakdown `json:"breakdown"`
	Reasons              []Reason          `json:"reasons"`
}
