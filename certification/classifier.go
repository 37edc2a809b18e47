package certification

import (
	"fmt"
	"time"

	"github.com/warp/fleet-engine/generic"
)

// =============================================================================
// THRESHOLD RULES - Evaluated top to bottom, first match wins
// =============================================================================

type rule struct {
	matches  func(days int) bool
	color    Color
	label    string
	severity int
}

var rules = []rule{
	{matches: func(d int) bool { return d < 0 }, color: ColorRed, label: LabelExpired, severity: 5},
	{matches: func(d int) bool { return d <= 14 }, color: ColorRed, label: LabelCritical, severity: 4},
	{matches: func(d int) bool { return d <= 30 }, color: ColorYellow, label: LabelExpiringSoon, severity: 3},
	{matches: func(d int) bool { return d <= 90 }, color: ColorYellow, label: LabelUpcoming, severity: 2},
	{matches: func(int) bool { return true }, color: ColorGreen, label: LabelCurrent, severity: 1},
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier applies the expiry rules with a fixed category configuration.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	categories Categories
}

func NewClassifier(categories Categories) *Classifier {
	return &Classifier{categories: categories}
}

// Categories returns the configuration the classifier was built with.
func (c *Classifier) Categories() Categories { return c.categories }

// Classify computes the status of a certification expiring on expiry.
// Only calendar dates are compared: the time of day on expiry and today is ignored.
func (c *Classifier) Classify(expiry *time.Time, category string, today time.Time) Status {
	if expiry == nil {
		return Status{
			Label:     LabelNoDate,
			Color:     ColorGray,
			Countdown: Countdown(nil),
		}
	}

	days := DaysUntil(*expiry, today)
	grace := c.categories.GraceFor(category)

	var status Status
	for _, r := range rules {
		if r.matches(days) {
			status = Status{Label: r.label, Color: r.color, Severity: r.severity}
			break
		}
	}

	if days < 0 && grace > 0 && -days <= grace {
		status.Label = LabelExpiredGrace
		status.InGracePeriod = true
	}

	status.DaysUntilExpiry = &days
	status.Countdown = Countdown(&days)
	return status
}

// ClassifyRecord classifies a record with its own category.
func (c *Classifier) ClassifyRecord(rec Record, today time.Time) Status {
	return c.Classify(rec.ExpiryDate, rec.Category, today)
}

// DaysUntil is the whole number of calendar days from today to expiry.
func DaysUntil(expiry, today time.Time) int {
	return generic.DaysBetween(generic.DateOf(today), generic.DateOf(expiry))
}

// Countdown renders days-until-expiry for badges and tooltips.
func Countdown(days *int) string {
	if days == nil {
		return "No expiry date"
	}
	switch d := *days; {
	case d == 0:
		return "Expires today"
	case d == 1:
		return "Expires tomorrow"
	case d > 1:
		return fmt.Sprintf("Expires in %d days", d)
	case d == -1:
		return "Expired yesterday"
	default:
		return fmt.Sprintf("Expired %d days ago", -d)
	}
}
