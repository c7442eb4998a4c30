package report

import (
	"mttr-dashboard/domain/ticket"
)

// View is everything rendered for one metric.
type View struct {
	Metric  ticket.Metric `json:"metric"`
	Groups  []Group       `json:"groups"`
	Pivot   Pivot         `json:"pivot"`
	Chart   Chart         `json:"chart"`
	Summary Summary       `json:"summary"`
}

// Report is one full pipeline pass over an uploaded table.
type Report struct {
	Options   Selection     `json:"options"`
	Selection Selection     `json:"selection"`
	Filtered  *ticket.Table `json:"-"`
	MTTD      View          `json:"mttd"`
	MTTR      View          `json:"mttr"`
}

// Build filters tb by sel and computes both metric views. A nil sel selects
// every available option.
func Build(tb *ticket.Table, sel *Selection) *Report {
	opts := Options(tb)
	if sel == nil {
		sel = &opts
	}
	filtered := Filter(tb, *sel)
	return &Report{
		Options:   opts,
		Selection: *sel,
		Filtered:  filtered,
		MTTD:      NewView(filtered, ticket.MetricMTTD),
		MTTR:      NewView(filtered, ticket.MetricMTTR),
	}
}

// NewView aggregates tb for metric.
func NewView(tb *ticket.Table, metric ticket.Metric) View {
	groups := Aggregate(tb.Tickets, metric)
	return View{
		Metric:  metric,
		Groups:  groups,
		Pivot:   NewPivot(metric, groups),
		Chart:   NewChart(metric, groups),
		Summary: NewSummary(metric, groups),
	}
}

// View returns the view for metric.
func (r *Report) View(metric ticket.Metric) View {
	if metric == ticket.MetricMTTD {
		return r.MTTD
	}
	return r.MTTR
}
