package report

import (
	"fmt"

	"mttr-dashboard/domain/ticket"
)

// SummaryMonthHeader heads the label column; SummaryAvgLabel labels the
// trailing row of column means.
const (
	SummaryMonthHeader = ticket.ColMonthYear
	SummaryAvgLabel    = "AVG"
)

// Triad is COUNT, SUM and AVG for one priority in one month.
type Triad struct {
	Count int      `json:"count"`
	Sum   float64  `json:"sum"`
	Avg   *float64 `json:"avg"`
}

// SummaryRow is one month with a triad for every priority, indexed by
// Priority.Index.
type SummaryRow struct {
	Month  ticket.Month `json:"month"`
	Triads []Triad      `json:"triads"`
}

// Summary is the fixed-width export table for one metric: a row per month
// and a trailing row of column-wise means.
type Summary struct {
	Metric ticket.Metric `json:"metric"`
	Rows   []SummaryRow  `json:"rows"`
	// Mean has one entry per data column (COUNT, SUM, AVG per priority).
	// It averages every month row, zero-filled pairs included, and skips
	// null AVG cells. Entries are nil when no month has a value.
	Mean []*float64 `json:"mean"`
}

// NewSummary builds the full summary from sorted groups. Pairs with no group
// default to (0, 0.0, 0.0).
func NewSummary(metric ticket.Metric, groups []Group) Summary {
	months := groupMonths(groups)
	rows := make([]SummaryRow, len(months))
	pos := make(map[ticket.Month]int, len(months))
	zero := 0.0
	for i, m := range months {
		pos[m] = i
		rows[i] = SummaryRow{Month: m, Triads: make([]Triad, len(ticket.Priorities))}
		for j := range rows[i].Triads {
			rows[i].Triads[j] = Triad{Avg: &zero}
		}
	}
	for _, g := range groups {
		rows[pos[g.Month]].Triads[g.Priority.Index()] = Triad{Count: g.Count, Sum: g.Sum, Avg: g.Avg}
	}

	s := Summary{Metric: metric, Rows: rows}
	s.Mean = columnMeans(rows)
	return s
}

func columnMeans(rows []SummaryRow) []*float64 {
	width := 3 * len(ticket.Priorities)
	sums := make([]float64, width)
	counts := make([]int, width)
	for _, r := range rows {
		for i, tr := range r.Triads {
			sums[3*i] += float64(tr.Count)
			counts[3*i]++
			sums[3*i+1] += tr.Sum
			counts[3*i+1]++
			if tr.Avg != nil {
				sums[3*i+2] += *tr.Avg
				counts[3*i+2]++
			}
		}
	}
	means := make([]*float64, width)
	for i := range means {
		if counts[i] > 0 {
			v := sums[i] / float64(counts[i])
			means[i] = &v
		}
	}
	return means
}

// Header returns the column titles, e.g. "P1 (COUNT)", "P1 (SUM MTTD)".
func (s Summary) Header() []string {
	h := []string{SummaryMonthHeader}
	for _, p := range ticket.Priorities {
		h = append(h,
			fmt.Sprintf("%s (COUNT)", p),
			fmt.Sprintf("%s (SUM %s)", p, s.Metric.Label()),
			fmt.Sprintf("%s (AVG %s)", p, s.Metric.Label()),
		)
	}
	return h
}

// Records flattens the summary into typed cells aligned with Header: month
// rows carry int counts, the AVG row float means. Nil marks a blank cell.
func (s Summary) Records() [][]any {
	out := make([][]any, 0, len(s.Rows)+1)
	for _, r := range s.Rows {
		rec := []any{r.Month.String()}
		for _, tr := range r.Triads {
			var avg any
			if tr.Avg != nil {
				avg = *tr.Avg
			}
			rec = append(rec, tr.Count, tr.Sum, avg)
		}
		out = append(out, rec)
	}
	avgRow := []any{SummaryAvgLabel}
	for _, m := range s.Mean {
		if m == nil {
			avgRow = append(avgRow, nil)
			continue
		}
		avgRow = append(avgRow, *m)
	}
	return append(out, avgRow)
}
