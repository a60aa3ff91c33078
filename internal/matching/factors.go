package matching

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxSafePrice is the unbounded-high sentinel for a missing price or budget
// cap. Kept at 2^53-1 so legacy records scored by the old stack keep the
// exact same edge-case behavior.
const maxSafePrice = float64(1<<53 - 1)

// areaClusterToken groups the Krayot municipalities for fuzzy area matching.
const areaClusterToken = "קרי"

const dayHours = 24

// ----------------------------------------------------------------------------
// Strict strategy factors
// ----------------------------------------------------------------------------

func strictPrice(_ Vocabulary, lead Lead, prop Property) factorScore {
	budgetMin := float64(0)
	if lead.BudgetMin != nil {
		budgetMin = float64(*lead.BudgetMin)
	}
	budgetMax := maxSafePrice
	if lead.BudgetMax != nil {
		budgetMax = float64(*lead.BudgetMax)
	}
	price := maxSafePrice
	if prop.Price != nil {
		price = float64(*prop.Price)
	}

	if price >= budgetMin && price <= budgetMax {
		return factorScore{1, "בתוך התקציב"}
	}
	if price > 0 {
		var dist float64
		var note string
		if price < budgetMin {
			dist = (budgetMin - price) / math.Max(1, budgetMin)
			note = "מתחת לתקציב"
		} else {
			dist = (price - budgetMax) / math.Max(1, budgetMax)
			note = "מעל התקציב"
		}
		return factorScore{math.Max(0, 1-dist), note}
	}
	return factorScore{0, ""}
}

func strictLocation(_ Vocabulary, lead Lead, prop Property) factorScore {
	if len(lead.PreferredCities) == 0 {
		return factorScore{0.5, "אין העדפת מיקום"}
	}
	for _, city := range lead.PreferredCities {
		if city == prop.City {
			return factorScore{1, "עיר מועדפת"}
		}
	}
	return factorScore{0, "עיר לא מועדפת"}
}

func strictRooms(_ Vocabulary, lead Lead, prop Property) factorScore {
	if lead.PreferredRooms == nil || *lead.PreferredRooms == 0 {
		return factorScore{0.5, "אין העדפת חדרים"}
	}
	rooms := float64(0)
	if prop.Rooms != nil {
		rooms = *prop.Rooms
	}
	diff := math.Abs(rooms - *lead.PreferredRooms)

	// Exact step function: fractional differences fall through to the floor.
	switch diff {
	case 0:
		return factorScore{1, "מספר חדרים מושלם"}
	case 1:
		return factorScore{0.7, "הפרש 1 חדרים"}
	case 2:
		return factorScore{0.4, "הפרש 2 חדרים"}
	default:
		return factorScore{0.1, "הפרש " + formatNumber(diff) + " חדרים"}
	}
}

// strictAmenities always scores 1: mandatory failures are surfaced through
// disqualification, not by zeroing this factor. The note still reports how
// many mandatory requirements are unmet so the breakdown reads correctly.
func strictAmenities(_ Vocabulary, lead Lead, prop Property) factorScore {
	unmet := 0
	for _, key := range requiredKeys(lead) {
		if !prop.HasAmenity(key) {
			unmet++
		}
	}
	if unmet > 0 {
		return factorScore{1, fmt.Sprintf("חסרות %d דרישות חובה", unmet)}
	}
	return factorScore{1, "כל הדרישות מולאו"}
}

func strictMoveIn(_ Vocabulary, lead Lead, prop Property) factorScore {
	if !hasDate(lead.MoveInFrom) || !hasDate(prop.AvailableFrom) {
		return factorScore{0.5, "תאריכי כניסה לא מוגדרים"}
	}
	leadDate, ok := parseDate(*lead.MoveInFrom)
	if !ok {
		return factorScore{0.5, "תאריך לא תקין"}
	}
	propDate, ok := parseDate(*prop.AvailableFrom)
	if !ok {
		return factorScore{0.5, "תאריך לא תקין"}
	}

	days := math.Abs(propDate.Sub(leadDate).Hours() / dayHours)
	switch {
	case days <= 7:
		return factorScore{1, "כניסה מיידית"}
	case days <= 30:
		return factorScore{0.8, "כניסה בחודש"}
	case days <= 60:
		return factorScore{0.5, "כניסה בחודשיים"}
	default:
		return factorScore{0.2, "כניסה רחוקה"}
	}
}

// ----------------------------------------------------------------------------
// Soft strategy factors
// ----------------------------------------------------------------------------

func softLocation(_ Vocabulary, lead Lead, prop Property) factorScore {
	if lead.Area == nil || strings.TrimSpace(*lead.Area) == "" {
		return factorScore{0.5, "לא צוין העדפת מיקום"}
	}

	leadArea := strings.ToLower(strings.TrimSpace(*lead.Area))
	propertyCity := strings.ToLower(prop.City)
	propertyRegion := ""
	if prop.Region != nil {
		propertyRegion = strings.ToLower(*prop.Region)
	}

	switch {
	case strings.Contains(propertyCity, leadArea) || strings.Contains(leadArea, propertyCity):
		return factorScore{1, "התאמה מדויקת: " + prop.City}
	case propertyRegion != "" && (strings.Contains(propertyRegion, leadArea) || strings.Contains(leadArea, propertyRegion)):
		region := prop.City
		if prop.Region != nil && *prop.Region != "" {
			region = *prop.Region
		}
		return factorScore{0.8, "התאמה אזורית: " + region}
	case strings.Contains(leadArea, areaClusterToken) &&
		(strings.Contains(propertyCity, areaClusterToken) || strings.Contains(propertyRegion, areaClusterToken)):
		return factorScore{0.6, "באזור הקריות: " + prop.City}
	default:
		return factorScore{0.2, "לא באזור המועדף: " + prop.City}
	}
}

func softBudget(_ Vocabulary, lead Lead, prop Property) factorScore {
	if lead.BudgetMax == nil || *lead.BudgetMax == 0 || prop.Price == nil || *prop.Price == 0 {
		return factorScore{0.5, "מידע תקציב חסר"}
	}

	budget := *lead.BudgetMax
	price := *prop.Price
	ratio := float64(price) / float64(budget)
	overPct := int(math.Round((ratio - 1) * 100))

	switch {
	case ratio <= 1.0:
		return factorScore{1, fmt.Sprintf("בתקציב: ₪%d (תקציב: ₪%d)", price, budget)}
	case ratio <= 1.1:
		return factorScore{0.8, fmt.Sprintf("מעט מעל התקציב: ₪%d (+%d%%)", price, overPct)}
	case ratio <= 1.2:
		return factorScore{0.5, fmt.Sprintf("מעל התקציב: ₪%d (+%d%%)", price, overPct)}
	default:
		return factorScore{0.2, fmt.Sprintf("הרבה מעל התקציב: ₪%d (+%d%%)", price, overPct)}
	}
}

func softRooms(_ Vocabulary, lead Lead, prop Property) factorScore {
	if lead.PreferredRooms == nil || *lead.PreferredRooms == 0 || prop.Rooms == nil || *prop.Rooms == 0 {
		return factorScore{0.5, "מידע חדרים חסר"}
	}

	leadRooms := *lead.PreferredRooms
	propRooms := *prop.Rooms
	diff := math.Abs(propRooms - leadRooms)

	switch {
	case diff == 0:
		return factorScore{1, fmt.Sprintf("התאמה מושלמת: %s חדרים", formatNumber(propRooms))}
	case diff <= 0.5:
		return factorScore{0.8, fmt.Sprintf("קרוב מאוד: %s חדרים (מבוקש: %s)", formatNumber(propRooms), formatNumber(leadRooms))}
	case diff <= 1:
		return factorScore{0.6, fmt.Sprintf("הפרש קטן: %s חדרים (מבוקש: %s)", formatNumber(propRooms), formatNumber(leadRooms))}
	default:
		return factorScore{0.3, fmt.Sprintf("הפרש גדול: %s חדרים (מבוקש: %s)", formatNumber(propRooms), formatNumber(leadRooms))}
	}
}

// softAmenities blends explicit boolean preferences with free-text feature
// tokens resolved through the vocabulary. Score is matched/considered; a lead
// that declared nothing gets the neutral 0.5.
func softAmenities(vocab Vocabulary, lead Lead, prop Property) factorScore {
	type check struct {
		pref *bool
		key  string
		name string
	}
	checks := []check{
		{lead.Pets, "pets_allowed", "בעלי חיים"},
		{lead.SafeRoom, "mamad", "ממ״ד"},
		{lead.Balcony, "balcony", "מרפסת"},
		{lead.Furnished, "furnished", "מרוהט"},
	}

	var matched, missing []string
	considered := 0

	for _, c := range checks {
		if c.pref == nil || !*c.pref {
			continue
		}
		considered++
		if prop.HasAmenity(c.key) {
			matched = append(matched, c.name)
		} else {
			missing = append(missing, c.name)
		}
	}

	for _, feature := range lead.Features {
		considered++
		if vocab.MatchFeature(feature, prop) {
			matched = append(matched, feature)
		} else {
			missing = append(missing, feature)
		}
	}

	score := 0.5
	if considered > 0 {
		score = float64(len(matched)) / float64(considered)
	}

	var parts []string
	if len(matched) > 0 {
		parts = append(parts, "יש: "+strings.Join(matched, ", "))
	}
	if len(missing) > 0 {
		parts = append(parts, "חסר: "+strings.Join(missing, ", "))
	}
	note := strings.Join(parts, " | ")
	if note == "" {
		note = "לא צוינו דרישות מיוחדות"
	}
	return factorScore{score, note}
}

// softAvailability uses the signed day difference: a property available on or
// before the requested date is a perfect match. A lead with no requested date
// is mildly favorable (flexible), not neutral.
func softAvailability(_ Vocabulary, lead Lead, prop Property) factorScore {
	if !hasDate(lead.MoveInFrom) {
		return factorScore{0.7, "לא צוין תאריך כניסה"}
	}
	if !hasDate(prop.AvailableFrom) {
		return factorScore{0.5, "תאריך זמינות לא ידוע"}
	}

	leadDate, ok := parseDate(*lead.MoveInFrom)
	if !ok {
		return factorScore{0.5, "תאריך לא תקין"}
	}
	propDate, ok := parseDate(*prop.AvailableFrom)
	if !ok {
		return factorScore{0.5, "תאריך לא תקין"}
	}

	days := int(math.Ceil(propDate.Sub(leadDate).Hours() / dayHours))
	switch {
	case days <= 0:
		return factorScore{1, fmt.Sprintf("זמין מיד (%s)", *prop.AvailableFrom)}
	case days <= 30:
		return factorScore{0.8, fmt.Sprintf("זמין בעוד %d ימים (%s)", days, *prop.AvailableFrom)}
	case days <= 60:
		months := int(math.Round(float64(days) / 30))
		return factorScore{0.6, fmt.Sprintf("זמין בעוד %d חודשים (%s)", months, *prop.AvailableFrom)}
	default:
		return factorScore{0.3, fmt.Sprintf("זמין רק ב-%s", *prop.AvailableFrom)}
	}
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func hasDate(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
