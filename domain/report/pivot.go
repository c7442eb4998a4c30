package report

import (
	"github.com/samber/lo"

	"mttr-dashboard/domain/ticket"
)

// Pivot is the mean metric reshaped to one row per month and one column per
// priority that has data.
type Pivot struct {
	Metric     ticket.Metric     `json:"metric"`
	Priorities []ticket.Priority `json:"priorities"`
	Rows       []PivotRow        `json:"rows"`
}

// PivotRow holds one month's means aligned with Pivot.Priorities.
type PivotRow struct {
	Month  ticket.Month `json:"month"`
	Values []*float64   `json:"values"`
}

// NewPivot reshapes sorted groups.
func NewPivot(metric ticket.Metric, groups []Group) Pivot {
	present := lo.SliceToMap(groups, func(g Group) (ticket.Priority, struct{}) { return g.Priority, struct{}{} })
	priorities := lo.Filter(ticket.Priorities, func(p ticket.Priority, _ int) bool {
		_, ok := present[p]
		return ok
	})
	column := lo.SliceToMap(priorities, func(p ticket.Priority) (ticket.Priority, int) {
		return p, lo.IndexOf(priorities, p)
	})

	pv := Pivot{Metric: metric, Priorities: priorities, Rows: []PivotRow{}}
	for _, g := range groups {
		n := len(pv.Rows)
		if n == 0 || pv.Rows[n-1].Month != g.Month {
			pv.Rows = append(pv.Rows, PivotRow{Month: g.Month, Values: make([]*float64, len(priorities))})
			n++
		}
		pv.Rows[n-1].Values[column[g.Priority]] = g.Avg
	}
	return pv
}

// Empty reports whether the pivot has no rows.
func (p Pivot) Empty() bool { return len(p.Rows) == 0 }
