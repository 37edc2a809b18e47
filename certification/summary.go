package certification

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPLIANCE SUMMARY - Admin dashboard aggregates
// =============================================================================

// ComplianceSummary counts a fleet's certifications by status.
type ComplianceSummary struct {
	Total        int
	Current      int // green
	Upcoming     int // yellow, 31..90 days
	ExpiringSoon int // yellow, 15..30 days
	Critical     int // red, 0..14 days
	Expired      int // red, past expiry (grace included)
	InGrace      int // subset of Expired
	NoDate       int // gray

	// ComplianceRate is the percentage of dated certifications that have not
	// expired, rounded to two places. 100 when nothing is dated.
	ComplianceRate decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Summarize classifies every record and tallies the results.
func (c *Classifier) Summarize(records []Record, today time.Time) ComplianceSummary {
	var s ComplianceSummary
	for _, rec := range records {
		st := c.ClassifyRecord(rec, today)
		s.Total++
		switch {
		case !st.HasDate():
			s.NoDate++
		case st.IsExpired():
			s.Expired++
			if st.InGracePeriod {
				s.InGrace++
			}
		case st.Label == LabelCritical:
			s.Critical++
		case st.Label == LabelExpiringSoon:
			s.ExpiringSoon++
		case st.Label == LabelUpcoming:
			s.Upcoming++
		default:
			s.Current++
		}
	}

	dated := s.Total - s.NoDate
	if dated == 0 {
		s.ComplianceRate = hundred
		return s
	}
	valid := decimal.NewFromInt(int64(dated - s.Expired))
	s.ComplianceRate = valid.Mul(hundred).Div(decimal.NewFromInt(int64(dated))).Round(2)
	return s
}

// =============================================================================
// ORDERING - Pilot portal lists
// =============================================================================

// ClassifiedRecord pairs a record with its status.
type ClassifiedRecord struct {
	Record Record
	Status Status
}

// SortByUrgency classifies records and orders them soonest expiry first.
// Undated records go last; ties keep input order.
func (c *Classifier) SortByUrgency(records []Record, today time.Time) []ClassifiedRecord {
	out := make([]ClassifiedRecord, len(records))
	for i, rec := range records {
		out[i] = ClassifiedRecord{Record: rec, Status: c.ClassifyRecord(rec, today)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Status.DaysUntilExpiry, out[j].Status.DaysUntilExpiry
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a < *b
	})
	return out
}

// =============================================================================
// CREW SUMMARIES
// =============================================================================

// PilotSummary is a pilot's worst certification status.
type PilotSummary struct {
	PilotID          string
	PilotDisplayName string
	Worst            Status
	Certifications   int
	Expired          int
	Attention        int // within the 90-day alert horizon, expired included
}

// PilotSummaries rolls records up per pilot, in first-seen pilot order.
func (c *Classifier) PilotSummaries(records []Record, today time.Time) []PilotSummary {
	index := make(map[string]int)
	var out []PilotSummary

	for _, rec := range records {
		i, ok := index[rec.PilotID]
		if !ok {
			i = len(out)
			index[rec.PilotID] = i
			out = append(out, PilotSummary{
				PilotID:          rec.PilotID,
				PilotDisplayName: rec.PilotDisplayName,
				Worst:            Status{Label: LabelNoDate, Color: ColorGray, Countdown: Countdown(nil)},
			})
		}

		st := c.ClassifyRecord(rec, today)
		ps := &out[i]
		ps.Certifications++
		if st.IsExpired() {
			ps.Expired++
		}
		if st.HasDate() && *st.DaysUntilExpiry <= AlertHorizonDays {
			ps.Attention++
		}
		if moreUrgent(st, ps.Worst) {
			ps.Worst = st
		}
	}
	return out
}

func moreUrgent(a, b Status) bool {
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	if a.DaysUntilExpiry == nil || b.DaysUntilExpiry == nil {
		return false
	}
	return *a.DaysUntilExpiry < *b.DaysUntilExpiry
}
