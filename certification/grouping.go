package certification

import "time"

// =============================================================================
// EXPIRY GROUPS - Disjoint alert buckets
// =============================================================================

type GroupID string

const (
	GroupExpired      GroupID = "expired"
	GroupWithin14Days GroupID = "within14Days"
	GroupWithin30Days GroupID = "within30Days"
	GroupWithin60Days GroupID = "within60Days"
	GroupWithin90Days GroupID = "within90Days"
)

// GroupOrder is the priority order, most critical first.
var GroupOrder = []GroupID{
	GroupExpired,
	GroupWithin14Days,
	GroupWithin30Days,
	GroupWithin60Days,
	GroupWithin90Days,
}

// AlertHorizonDays is the last day-count that lands in any group.
const AlertHorizonDays = 90

// upper bound (inclusive) of each window; the lower bound is the previous
// window's bound + 1, so the windows cannot overlap.
var groupUpperBound = map[GroupID]int{
	GroupExpired:      -1,
	GroupWithin14Days: 14,
	GroupWithin30Days: 30,
	GroupWithin60Days: 60,
	GroupWithin90Days: AlertHorizonDays,
}

// GroupFor returns the tightest window containing days, false beyond 90.
func GroupFor(days int) (GroupID, bool) {
	for _, id := range GroupOrder {
		if days <= groupUpperBound[id] {
			return id, true
		}
	}
	return "", false
}

// ExpiryGroup holds the certifications of one window.
type ExpiryGroup struct {
	ID             GroupID
	Certifications []Record
	ByCategory     map[string][]Record
	Categories     []string // category insertion order
}

func newExpiryGroup(id GroupID) *ExpiryGroup {
	return &ExpiryGroup{ID: id, ByCategory: make(map[string][]Record)}
}

func (g *ExpiryGroup) add(rec Record) {
	g.Certifications = append(g.Certifications, rec)
	if _, seen := g.ByCategory[rec.Category]; !seen {
		g.Categories = append(g.Categories, rec.Category)
	}
	g.ByCategory[rec.Category] = append(g.ByCategory[rec.Category], rec)
}

// Len is the number of certifications in the group.
func (g *ExpiryGroup) Len() int { return len(g.Certifications) }

// ExpiryGroups is the result of GroupByExpiry. All five groups are always present.
type ExpiryGroups map[GroupID]*ExpiryGroup

// GroupByExpiry buckets records expiring within 90 days (or already expired).
// Records without an expiry date, or further out, land in no group.
func (c *Classifier) GroupByExpiry(records []Record, today time.Time) ExpiryGroups {
	groups := make(ExpiryGroups, len(GroupOrder))
	for _, id := range GroupOrder {
		groups[id] = newExpiryGroup(id)
	}

	for _, rec := range records {
		if rec.ExpiryDate == nil {
			continue
		}
		id, ok := GroupFor(DaysUntil(*rec.ExpiryDate, today))
		if !ok {
			continue
		}
		groups[id].add(rec)
	}
	return groups
}

// InOrder returns the groups most critical first.
func (g ExpiryGroups) InOrder() []*ExpiryGroup {
	out := make([]*ExpiryGroup, 0, len(GroupOrder))
	for _, id := range GroupOrder {
		if group, ok := g[id]; ok {
			out = append(out, group)
		}
	}
	return out
}

// MostCritical returns the first non-empty group in priority order.
func (g ExpiryGroups) MostCritical() (*ExpiryGroup, bool) {
	for _, group := range g.InOrder() {
		if group.Len() > 0 {
			return group, true
		}
	}
	return nil, false
}

// TotalExpiring sums the five groups. Zero means "all clear".
func (g ExpiryGroups) TotalExpiring() int {
	total := 0
	for _, group := range g.InOrder() {
		total += group.Len()
	}
	return total
}

// AllClear reports whether no certification needs attention.
func (g ExpiryGroups) AllClear() bool { return g.TotalExpiring() == 0 }
