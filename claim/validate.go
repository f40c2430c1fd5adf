package claim

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Issue is a hard semantic rejection of a present field value, distinct
// from the field merely being missing.
type Issue struct {
	Field   Field
	Message string
}

// Validator computes the ordered missing-field set and semantic
// rejections for a claim record. It performs no I/O; the clock is
// injected so date checks are deterministic under test.
type Validator struct {
	// StrictDates additionally rejects incident dates that cannot be
	// parsed, requiring ISO format. The lenient default accepts an
	// unparseable date as given and only rejects future dates.
	StrictDates bool
	Now         func() time.Time
}

func NewValidator(strictDates bool) *Validator {
	return &Validator{
		StrictDates: strictDates,
		Now:         time.Now,
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate attempts the accepted incident-date layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Missing returns the required fields that are still unset, in
// required-field order. A field counts missing when its value is null
// or empty after trimming; a claim amount that cannot be coerced to a
// number counts missing rather than invalid; a hard-rejected incident
// date stays in the missing set until replaced.
func (v *Validator) Missing(rec *Record) []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if !v.present(rec, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

func (v *Validator) present(rec *Record, f Field) bool {
	val := rec.Value(f)
	if val == nil || strings.TrimSpace(*val) == "" {
		return false
	}
	switch f {
	case FieldClaimAmount:
		_, ok := v.Amount(rec)
		return ok
	case FieldIncidentDate:
		return v.checkDate(*val) == nil
	}
	return true
}

// Check reports hard semantic rejections independent of missingness.
func (v *Validator) Check(rec *Record) []Issue {
	var issues []Issue
	if d := rec.IncidentDate; d != nil && strings.TrimSpace(*d) != "" {
		if issue := v.checkDate(*d); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

func (v *Validator) checkDate(raw string) *Issue {
	t, ok := ParseDate(raw)
	if !ok {
		if v.StrictDates {
			return &Issue{
				Field:   FieldIncidentDate,
				Message: fmt.Sprintf("I couldn't understand the incident date %q. Please provide it in YYYY-MM-DD format, e.g. 2024-05-17.", raw),
			}
		}
		return nil
	}
	today := v.today()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(today) {
		return &Issue{
			Field:   FieldIncidentDate,
			Message: fmt.Sprintf("The incident date %q is in the future, which can't be right. Please provide the actual date in YYYY-MM-DD format.", raw),
		}
	}
	return nil
}

func (v *Validator) today() time.Time {
	now := time.Now()
	if v.Now != nil {
		now = v.Now()
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Amount coerces the claim amount to a number, tolerating currency
// symbols and thousands separators.
func (v *Validator) Amount(rec *Record) (float64, bool) {
	if rec.ClaimAmount == nil {
		return 0, false
	}
	s := strings.TrimSpace(*rec.ClaimAmount)
	s = strings.TrimLeft(s, "$€£₹ ")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
