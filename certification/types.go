/*
Package certification classifies pilot certifications by expiry.

PURPOSE:
  Turns an expiry date plus category into a status (color, label, countdown)
  and triages whole collections into expiry buckets for alert banners,
  dashboard badges and the pilot portal.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: A certification row as loaded by the caller (pass-through fields)
  - Status: The classification result
  - Category: Reference data (check-type category with a grace period)
  - Categories: The explicit category configuration handed to the classifier

DESIGN PRINCIPLES:
  1. Pure: no clock reads, no I/O. The caller supplies "today".
  2. Exact numbers: grace periods change wording only, never DaysUntilExpiry.
  3. Explicit configuration: grace periods come in through Categories,
     never from package state.

USAGE:
  classifier := certification.NewClassifier(categories)
  status := classifier.Classify(rec.ExpiryDate, rec.Category, today)
  groups := classifier.GroupByExpiry(records, today)
  if groups.TotalExpiring() == 0 {
      // all clear
  }

SEE ALSO:
  - classifier.go: per-item rules
  - grouping.go: expiry buckets
  - summary.go: dashboard aggregates
*/
package certification

import (
	"sort"
	"time"
)

// =============================================================================
// RECORD - Input, owned by the caller
// =============================================================================

// Record is one pilot certification. Only ExpiryDate and Category are
// interpreted; the rest is carried through to the output.
type Record struct {
	ID               string
	PilotID          string
	PilotDisplayName string
	CheckCode        string
	CheckDescription string
	Category         string
	ExpiryDate       *time.Time // nil = no date on file
}

// =============================================================================
// STATUS - Output
// =============================================================================

type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorGray   Color = "gray"
)

const (
	LabelNoDate       = "No Date"
	LabelExpired      = "Expired"
	LabelExpiredGrace = "Expired (Grace Period)"
	LabelCritical     = "Critical"
	LabelExpiringSoon = "Expiring Soon"
	LabelUpcoming     = "Upcoming"
	LabelCurrent      = "Current"
)

// Status is the classification of one certification.
type Status struct {
	Label           string
	Color           Color
	DaysUntilExpiry *int // nil iff there is no expiry date
	InGracePeriod   bool
	Countdown       string
	Severity        int // higher is more urgent; 0 for no date
}

// IsExpired reports whether the expiry date has passed.
func (s Status) IsExpired() bool {
	return s.DaysUntilExpiry != nil && *s.DaysUntilExpiry < 0
}

// HasDate reports whether an expiry date was on file.
func (s Status) HasDate() bool { return s.DaysUntilExpiry != nil }

// =============================================================================
// CATEGORY - Reference data
// =============================================================================

// Category is a check-type category (e.g. "Flight Checks", "Pilot Medical").
type Category struct {
	Code            string
	DisplayName     string
	Description     string
	GracePeriodDays int
}

// Categories maps category code to its configuration. A nil map is valid and
// grants zero grace everywhere.
type Categories map[string]Category

// NewCategories indexes categories by code.
func NewCategories(cats ...Category) Categories {
	c := make(Categories, len(cats))
	for _, cat := range cats {
		c[cat.Code] = cat
	}
	return c
}

// GraceFor returns the category's grace period, zero when absent.
func (c Categories) GraceFor(code string) int {
	if cat, ok := c[code]; ok && cat.GracePeriodDays > 0 {
		return cat.GracePeriodDays
	}
	return 0
}

// Get returns the category for a code.
func (c Categories) Get(code string) (Category, bool) {
	cat, ok := c[code]
	return cat, ok
}

// List returns the categories sorted by code.
func (c Categories) List() []Category {
	out := make([]Category, 0, len(c))
	for _, cat := range c {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
