/*
calculator.go - Date <-> roster period conversion

PURPOSE:
  Maps calendar dates to roster periods and back, and steps between
  adjacent periods. Used by period navigation, roster calendars and crew
  summaries.

ARITHMETIC:
  Every period is identified by its offset from the anchor:

    offset    = (year - anchorYear) * 13 + (number - anchorNumber)
    startDate = anchorStart + offset * 28 days
    endDate   = startDate + 27 days

  The inverse (date -> offset) is floor((date - anchorStart) / 28), so
  dates before the anchor land on negative offsets without special cases.

TODAY:
  Every operation takes the caller's "today". The calculator never reads
  the clock. DaysRemaining is measured from the calendar date of today in
  the caller's location, so it only changes once per day.

EXAMPLE:
  calc := roster.Default()
  p, err := calc.FromCode("RP1/2026", time.Now())
  // p.StartDate = 2025-12-06, p.EndDate = 2026-01-02
  next := calc.Next(p, time.Now()) // RP2/2026

SEE ALSO:
  - types.go: RosterPeriod, Config
  - calendar.go: year and range listings
*/
package roster

import (
	"regexp"
	"strconv"
	"time"

	"github.com/warp/fleet-engine/generic"
)

var codePattern = regexp.MustCompile(`^RP(\d{1,2})/(\d{4})$`)

// Calculator converts between dates and roster periods. Safe for concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator validates cfg and returns a calculator.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{cfg: cfg}, nil
}

// Default returns a calculator on DefaultConfig.
func Default() *Calculator {
	return &Calculator{cfg: DefaultConfig()}
}

// Config returns the calculator's configuration.
func (c *Calculator) Config() Config { return c.cfg }

// =============================================================================
// LOOKUP
// =============================================================================

// Current returns the period containing today's calendar date.
func (c *Calculator) Current(today time.Time) RosterPeriod {
	return c.ForDate(generic.DateOf(today), today)
}

// ForDate returns the period containing date.
func (c *Calculator) ForDate(date generic.TimePoint, today time.Time) RosterPeriod {
	elapsed := generic.DaysBetween(c.cfg.Anchor.Start, date)
	return c.periodAt(generic.FloorDiv(elapsed, c.cfg.PeriodDays), today)
}

// FromCode parses an RP{n}/{yyyy} code. Both "RP1/2026" and "RP01/2026" parse.
func (c *Calculator) FromCode(code string, today time.Time) (RosterPeriod, error) {
	number, year, err := c.parse(code)
	if err != nil {
		return RosterPeriod{}, err
	}
	return c.periodAt(c.offset(number, year), today), nil
}

// FromCodeOrCurrent is FromCode with the UI fallback: a malformed code
// yields the current period. The boolean reports whether the fallback fired.
func (c *Calculator) FromCodeOrCurrent(code string, today time.Time) (RosterPeriod, bool) {
	p, err := c.FromCode(code, today)
	if err != nil {
		return c.Current(today), true
	}
	return p, false
}

// =============================================================================
// NAVIGATION
// =============================================================================

// Next returns the period starting 28 days after p.
func (c *Calculator) Next(p RosterPeriod, today time.Time) RosterPeriod {
	return c.periodAt(c.offset(p.Number, p.Year)+1, today)
}

// Previous returns the period starting 28 days before p.
func (c *Calculator) Previous(p RosterPeriod, today time.Time) RosterPeriod {
	return c.periodAt(c.offset(p.Number, p.Year)-1, today)
}

// OptionsAround lists before periods preceding center, center itself, then
// after periods following it, in chronological order. Negative counts are
// treated as zero. Each call recomputes from scratch.
func (c *Calculator) OptionsAround(center RosterPeriod, before, after int, today time.Time) []RosterPeriod {
	before = max(before, 0)
	after = max(after, 0)

	options := make([]RosterPeriod, before+1+after)
	options[before] = center

	p := center
	for i := before - 1; i >= 0; i-- {
		p = c.Previous(p, today)
		options[i] = p
	}
	p = center
	for i := before + 1; i < len(options); i++ {
		p = c.Next(p, today)
		options[i] = p
	}
	return options
}

// =============================================================================
// INTERNALS
// =============================================================================

// ParseCode splits a code into number and year without a calculator, using
// the default 13 periods per year.
func ParseCode(code string) (number, year int, err error) {
	return Default().parse(code)
}

func (c *Calculator) parse(code string) (number, year int, err error) {
	m := codePattern.FindStringSubmatch(code)
	if m == nil {
		return 0, 0, &InvalidCodeError{Code: code, Reason: "expected RP{n}/{yyyy}"}
	}
	number, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if number < 1 || number > c.cfg.PeriodsPerYear {
		return 0, 0, &InvalidCodeError{
			Code:   code,
			Reason: "period number must be 1.." + strconv.Itoa(c.cfg.PeriodsPerYear),
		}
	}
	return number, year, nil
}

// offset is the signed number of periods between the anchor and number/year.
func (c *Calculator) offset(number, year int) int {
	a := c.cfg.Anchor
	return (year-a.Year)*c.cfg.PeriodsPerYear + (number - a.Number)
}

func (c *Calculator) periodAt(offset int, today time.Time) RosterPeriod {
	a := c.cfg.Anchor
	ppy := c.cfg.PeriodsPerYear

	seq := a.Year*ppy + (a.Number - 1) + offset
	number := generic.FloorMod(seq, ppy) + 1
	year := generic.FloorDiv(seq, ppy)

	start := a.Start.AddDays(offset * c.cfg.PeriodDays)
	end := start.AddDays(c.cfg.PeriodDays - 1)

	return RosterPeriod{
		Code:          FormatCode(number, year),
		Number:        number,
		Year:          year,
		StartDate:     start,
		EndDate:       end,
		DaysRemaining: generic.DaysBetween(generic.DateOf(today), end),
	}
}
