// Package roster implements the anchored 28-day roster-period calendar.
// Periods are identified as RP{n}/{yyyy} and derived purely from one fixed
// anchor period plus elapsed days; no period table is stored anywhere.
package roster

import (
	"fmt"

	"github.com/warp/fleet-engine/generic"
)

// =============================================================================
// ROSTER PERIOD - Value type, computed on demand
// =============================================================================

// RosterPeriod is one 28-day roster cycle.
type RosterPeriod struct {
	Code          string            // canonical RP{n}/{yyyy}, e.g. "RP1/2026"
	Number        int               // 1..PeriodsPerYear
	Year          int               // roster year, not necessarily StartDate.Year()
	StartDate     generic.TimePoint // first day, inclusive
	EndDate       generic.TimePoint // last day, inclusive (StartDate + 27)
	DaysRemaining int               // EndDate - start of today; negative for past periods
}

// DisplayCode renders the zero-padded form used on calendars and selectors.
func (p RosterPeriod) DisplayCode() string {
	return fmt.Sprintf("RP%02d/%d", p.Number, p.Year)
}

// Period returns the period's date range.
func (p RosterPeriod) Period() generic.Period {
	return generic.Period{Start: p.StartDate, End: p.EndDate}
}

// Contains returns true if date is within [StartDate, EndDate].
func (p RosterPeriod) Contains(date generic.TimePoint) bool {
	return p.Period().Contains(date)
}

// Days returns every day of the period, for calendar grids.
func (p RosterPeriod) Days() []generic.TimePoint {
	return p.Period().Days()
}

// IsPast reports whether the period ended before today.
func (p RosterPeriod) IsPast() bool { return p.DaysRemaining < 0 }

func (p RosterPeriod) String() string {
	return p.Code + " " + p.Period().String()
}

// FormatCode renders the canonical code for a number/year pair.
func FormatCode(number, year int) string {
	return fmt.Sprintf("RP%d/%d", number, year)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Anchor is the one period whose start date is known. Every other period is
// a whole number of PeriodDays away from it.
type Anchor struct {
	Number int
	Year   int
	Start  generic.TimePoint
}

// Config holds the calendar parameters. Tests substitute alternate anchors
// here; production supplies DefaultConfig once at startup.
//
// 13 x 28 = 364 days, so roster years drift one day per calendar year (two in
// leap years) against January 1. The arithmetic deliberately keeps the fixed
// multiple; there is no realignment period.
type Config struct {
	Anchor         Anchor
	PeriodDays     int
	PeriodsPerYear int
}

const (
	DefaultPeriodDays     = 28
	DefaultPeriodsPerYear = 13
)

// DefaultConfig anchors RP13/2025 on 2025-11-08.
func DefaultConfig() Config {
	return Config{
		Anchor: Anchor{
			Number: 13,
			Year:   2025,
			Start:  generic.NewTimePoint(2025, 11, 8),
		},
		PeriodDays:     DefaultPeriodDays,
		PeriodsPerYear: DefaultPeriodsPerYear,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.PeriodDays <= 0 {
		return fmt.Errorf("%w: period length must be positive, got %d", ErrInvalidConfig, c.PeriodDays)
	}
	if c.PeriodsPerYear <= 0 {
		return fmt.Errorf("%w: periods per year must be positive, got %d", ErrInvalidConfig, c.PeriodsPerYear)
	}
	if c.Anchor.Number < 1 || c.Anchor.Number > c.PeriodsPerYear {
		return fmt.Errorf("%w: anchor number %d outside 1..%d", ErrInvalidConfig, c.Anchor.Number, c.PeriodsPerYear)
	}
	if c.Anchor.Start.IsZero() {
		return fmt.Errorf("%w: anchor start date is required", ErrInvalidConfig)
	}
	return nil
}
