package matching

import "sort"

// evaluateConstraints checks every mandatory requirement the lead declared
// against the property. It never short-circuits the factor pipeline: the
// caller still runs all evaluators so the explanation is complete even for
// disqualified pairs.
func evaluateConstraints(lead Lead, prop Property) (disqualified bool, unmet []string, checks []Reason) {
	for _, key := range requiredKeys(lead) {
		if prop.HasAmenity(key) {
			checks = append(checks, Reason{
				Factor:      FactorAmenities,
				Note:        "יש דרישת חובה: " + key,
				IsMandatory: true,
				Matches:     true,
			})
			continue
		}
		unmet = append(unmet, key)
		checks = append(checks, Reason{
			Factor:      FactorAmenities,
			Note:        "חסר חובה: " + key,
			IsMandatory: true,
			Matches:     false,
		})
	}
	return len(unmet) > 0, unmet, checks
}

// requiredKeys returns the lead's mandatory amenity keys in a deterministic
// order. Only entries whose value is true count; false entries are ignored.
func requiredKeys(lead Lead) []string {
	keys := make([]string, 0, len(lead.Required))
	for key, required := range lead.Required {
		if required {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
