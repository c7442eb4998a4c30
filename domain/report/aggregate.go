package report

import (
	"sort"

	"mttr-dashboard/domain/ticket"
)

// Group is the aggregate of one metric for one (month, priority) pair.
// Count and Sum cover non-null values only; Avg is nil when Count is zero.
type Group struct {
	Month    ticket.Month    `json:"month"`
	Priority ticket.Priority `json:"priority"`
	Count    int             `json:"count"`
	Sum      float64         `json:"sum"`
	Avg      *float64        `json:"avg"`
}

type groupKey struct {
	month    ticket.Month
	priority ticket.Priority
}

// Aggregate groups tickets by (month, priority) and returns the groups ordered
// chronologically, then by priority. A pair exists once any ticket falls in
// it, even when all of its metric values are null.
func Aggregate(tickets []ticket.Ticket, metric ticket.Metric) []Group {
	byKey := map[groupKey]*Group{}
	for _, t := range tickets {
		if t.Month == nil || !t.Priority.Valid() {
			continue
		}
		k := groupKey{month: *t.Month, priority: t.Priority}
		g, ok := byKey[k]
		if !ok {
			g = &Group{Month: k.month, Priority: k.priority}
			byKey[k] = g
		}
		if v := metric.Value(t); v != nil {
			g.Count++
			g.Sum += *v
		}
	}

	groups := make([]Group, 0, len(byKey))
	for _, g := range byKey {
		if g.Count > 0 {
			avg := g.Sum / float64(g.Count)
			g.Avg = &avg
		}
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Month != b.Month {
			return a.Month.Before(b.Month)
		}
		return a.Priority < b.Priority
	})
	return groups
}

// groupMonths lists the distinct months of sorted groups, in order.
func groupMonths(groups []Group) []ticket.Month {
	var months []ticket.Month
	for i, g := range groups {
		if i == 0 || g.Month != groups[i-1].Month {
			months = append(months, g.Month)
		}
	}
	return months
}
