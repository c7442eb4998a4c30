package report

import (
	"fmt"
	"sort"

	"mttr-dashboard/domain/ticket"
)

// Chart is a line chart of mean metric per month, one series per priority.
type Chart struct {
	Title  string   `json:"title"`
	XTitle string   `json:"x_title"`
	YTitle string   `json:"y_title"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Series values are aligned with Chart.Labels; nil marks a gap.
type Series struct {
	Priority ticket.Priority `json:"priority"`
	Color    string          `json:"color"`
	Values   []*float64      `json:"values"`
}

// NewChart builds the chart from sorted groups.
func NewChart(metric ticket.Metric, groups []Group) Chart {
	months := groupMonths(groups)
	labels := make([]string, len(months))
	pos := make(map[ticket.Month]int, len(months))
	for i, m := range months {
		labels[i] = m.String()
		pos[m] = i
	}

	c := Chart{
		Title:  fmt.Sprintf("%s Over Time by Priority", metric.Label()),
		XTitle: ticket.ColMonthYear,
		YTitle: fmt.Sprintf("Average %s (minutes)", metric.Label()),
		Labels: labels,
		Series: []Series{},
	}
	series := map[ticket.Priority]int{}
	for _, g := range groups {
		i, ok := series[g.Priority]
		if !ok {
			i = len(c.Series)
			series[g.Priority] = i
			c.Series = append(c.Series, Series{
				Priority: g.Priority,
				Color:    g.Priority.Color(),
				Values:   make([]*float64, len(labels)),
			})
		}
		c.Series[i].Values[pos[g.Month]] = g.Avg
	}
	// Groups are month-major, so series appear in first-seen order.
	sort.Slice(c.Series, func(i, j int) bool { return c.Series[i].Priority < c.Series[j].Priority })
	return c
}
