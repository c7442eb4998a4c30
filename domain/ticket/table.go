package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// MissingColumnError reports every required column absent from an export.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
}

// Table is the in-memory ticket export. Headers are the source columns in
// input order, derived columns excluded.
type Table struct {
	Headers []string
	Tickets []Ticket

	index map[string]int
}

// Option tunes how NewTable coerces cells.
type Option func(*options)

type options struct {
	parseTime  func(string) (time.Time, bool)
	calculator Calculator
	cells      [][]any
}

// WithTimeParser replaces ParseTime, e.g. to decode spreadsheet date serials.
func WithTimeParser(fn func(string) (time.Time, bool)) Option {
	return func(o *options) {
		if fn != nil {
			o.parseTime = fn
		}
	}
}

// WithInternalOrigins sets the case origins whose MTTD is zero.
func WithInternalOrigins(origins ...string) Option {
	return func(o *options) {
		o.calculator = NewCalculator(origins...)
	}
}

// WithTypedCells supplies typed source values aligned with the rows passed
// to NewTable, indexed by source column. Nil entries keep the text value.
func WithTypedCells(cells [][]any) Option {
	return func(o *options) {
		o.cells = cells
	}
}

// NewTable validates headers, coerces each row into a Ticket and attaches the
// derived month bucket and metrics. Rows whose cells are all blank are skipped.
func NewTable(headers []string, rows [][]string, opts ...Option) (*Table, error) {
	o := &options{parseTime: ParseTime, calculator: NewCalculator()}
	for _, opt := range opts {
		opt(o)
	}

	// Keep source positions of non-derived columns.
	var keep []int
	tb := &Table{index: map[string]int{}}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if lo.Contains(DerivedColumns, h) {
			continue
		}
		if _, dup := tb.index[h]; !dup {
			tb.index[h] = len(tb.Headers)
		}
		tb.Headers = append(tb.Headers, h)
		keep = append(keep, i)
	}

	missing := lo.Filter(RequiredColumns, func(c string, _ int) bool {
		_, ok := tb.index[c]
		return !ok
	})
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	tb.Tickets = make([]Ticket, 0, len(rows))
	for r, row := range rows {
		values := make([]string, len(keep))
		blank := true
		for j, src := range keep {
			if src < len(row) {
				values[j] = row[src]
			}
			if strings.TrimSpace(values[j]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		t := tb.newTicket(values, o)
		if r < len(o.cells) {
			t.Cells = pick(o.cells[r], keep)
		}
		tb.Tickets = append(tb.Tickets, t)
	}
	return tb, nil
}

// pick realigns typed source cells to the kept columns, nil when none is set.
func pick(cells []any, keep []int) []any {
	var out []any
	for j, src := range keep {
		if src >= len(cells) || cells[src] == nil {
			continue
		}
		if out == nil {
			out = make([]any, len(keep))
		}
		out[j] = cells[src]
	}
	return out
}

func (tb *Table) newTicket(values []string, o *options) Ticket {
	get := func(col string) string { return values[tb.index[col]] }
	parse := func(col string) *time.Time {
		if t, ok := o.parseTime(get(col)); ok {
			return &t
		}
		return nil
	}

	t := Ticket{
		OpenedAt:    parse(ColOpenedAt),
		RespondedAt: parse(ColRespondedAt),
		RestoredAt:  parse(ColRestoredAt),
		OpenedDate:  parse(ColOpenedDate),
		CaseOrigin:  get(ColCaseOrigin),
		RawPriority: strings.TrimSpace(get(ColPriority)),
		Values:      values,
	}
	t.Priority, _ = ParsePriority(t.RawPriority)
	if t.RestoredAt != nil {
		m := MonthOf(*t.RestoredAt)
		t.Month = &m
	}
	t.MTTD = o.calculator.MTTD(t)
	t.MTTR = o.calculator.MTTR(t)
	return t
}

// WithTickets returns a table sharing tb's headers but holding ts.
func (tb *Table) WithTickets(ts []Ticket) *Table {
	return &Table{Headers: tb.Headers, Tickets: ts, index: tb.index}
}

// Columns lists the record layout: source headers then derived columns.
func (tb *Table) Columns() []string {
	cols := make([]string, 0, len(tb.Headers)+len(DerivedColumns))
	cols = append(cols, tb.Headers...)
	return append(cols, DerivedColumns...)
}

// Record returns t as typed cells aligned with Columns. Date columns hold
// time.Time, metrics float64, typed passthrough cells their source type,
// blanks and unknowns nil.
func (tb *Table) Record(t Ticket) []any {
	rec := make([]any, 0, len(tb.Headers)+len(DerivedColumns))
	for i, h := range tb.Headers {
		rec = append(rec, tb.cell(t, i, h))
	}
	if t.Month != nil {
		rec = append(rec, t.Month.String())
	} else {
		rec = append(rec, nil)
	}
	rec = append(rec, deref(t.MTTD), deref(t.MTTR))
	return rec
}

func (tb *Table) cell(t Ticket, i int, header string) any {
	if tb.index[header] == i {
		switch header {
		case ColOpenedAt:
			return derefTime(t.OpenedAt)
		case ColRespondedAt:
			return derefTime(t.RespondedAt)
		case ColRestoredAt:
			return derefTime(t.RestoredAt)
		case ColOpenedDate:
			return derefTime(t.OpenedDate)
		case ColPriority:
			return blankToNil(t.RawPriority)
		}
	}
	if i < len(t.Cells) && t.Cells[i] != nil {
		return t.Cells[i]
	}
	return blankToNil(t.Values[i])
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func derefTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func blankToNil(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
