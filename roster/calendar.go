package roster

import (
	"time"

	"github.com/warp/fleet-engine/generic"
)

// PeriodsInYear returns RP1..RP13 of a roster year.
func (c *Calculator) PeriodsInYear(year int, today time.Time) []RosterPeriod {
	periods := make([]RosterPeriod, c.cfg.PeriodsPerYear)
	first := c.offset(1, year)
	for i := range periods {
		periods[i] = c.periodAt(first+i, today)
	}
	return periods
}

// Spanning returns every period the inclusive range [from, to] touches, in
// order. A leave request from 2026-01-01 to 2026-01-05 spans RP1/2026 and
// RP2/2026.
func (c *Calculator) Spanning(from, to generic.TimePoint, today time.Time) ([]RosterPeriod, error) {
	rng, err := generic.NewPeriod(from, to)
	if err != nil {
		return nil, err
	}

	first := c.ForDate(rng.Start, today)
	periods := []RosterPeriod{first}
	for p := first; p.EndDate.Before(rng.End); {
		p = c.Next(p, today)
		periods = append(periods, p)
	}
	return periods, nil
}
