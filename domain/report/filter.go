// Package report filters a ticket table and builds the grouped MTTD/MTTR views.
package report

import (
	"fmt"

	"github.com/samber/lo"

	"mttr-dashboard/domain/ticket"
)

// Selection is a set of month buckets and priorities. A nil or empty slice
// selects nothing on that axis.
type Selection struct {
	Months     []ticket.Month    `json:"months"`
	Priorities []ticket.Priority `json:"priorities"`
}

// Options returns the values offered to the user: distinct months in
// chronological order and the recognized priorities present, in fixed order.
// Tickets without a month bucket contribute no month option.
func Options(tb *ticket.Table) Selection {
	months := lo.Uniq(lo.FilterMap(tb.Tickets, func(t ticket.Ticket, _ int) (ticket.Month, bool) {
		if t.Month == nil {
			return ticket.Month{}, false
		}
		return *t.Month, true
	}))
	ticket.SortMonths(months)

	present := lo.SliceToMap(tb.Tickets, func(t ticket.Ticket) (ticket.Priority, struct{}) {
		return t.Priority, struct{}{}
	})
	priorities := lo.Filter(ticket.Priorities, func(p ticket.Priority, _ int) bool {
		_, ok := present[p]
		return ok
	})

	return Selection{Months: months, Priorities: priorities}
}

// Filter keeps tickets whose month is selected and whose priority is
// selected. Tickets with no month or an unrecognized priority never match.
func Filter(tb *ticket.Table, sel Selection) *ticket.Table {
	months := lo.SliceToMap(sel.Months, func(m ticket.Month) (ticket.Month, struct{}) { return m, struct{}{} })
	priorities := lo.SliceToMap(sel.Priorities, func(p ticket.Priority) (ticket.Priority, struct{}) { return p, struct{}{} })

	kept := lo.Filter(tb.Tickets, func(t ticket.Ticket, _ int) bool {
		if t.Month == nil || !t.Priority.Valid() {
			return false
		}
		_, okMonth := months[*t.Month]
		_, okPriority := priorities[t.Priority]
		return okMonth && okPriority
	})
	return tb.WithTickets(kept)
}

// ParseMonths parses "Mon-YYYY" labels, e.g. from query parameters or flags.
func ParseMonths(labels []string) ([]ticket.Month, error) {
	months := make([]ticket.Month, 0, len(labels))
	for _, l := range labels {
		m, err := ticket.ParseMonth(l)
		if err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, nil
}

// ParsePriorities parses priority labels P1..P5.
func ParsePriorities(labels []string) ([]ticket.Priority, error) {
	priorities := make([]ticket.Priority, 0, len(labels))
	for _, l := range labels {
		p, ok := ticket.ParsePriority(l)
		if !ok {
			return nil, fmt.Errorf("invalid priority %q: expected one of P1..P5", l)
		}
		priorities = append(priorities, p)
	}
	return priorities, nil
}
