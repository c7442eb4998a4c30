// Package ticket models one incident export row and the metrics derived from it.
package ticket

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Source columns of the ticket export.
const (
	ColOpenedAt    = "Date/Time Opened"
	ColRespondedAt = "Responded Date/Time"
	ColRestoredAt  = "Service Restored Date"
	ColOpenedDate  = "Opened Date"
	ColCaseOrigin  = "Case Origin"
	ColPriority    = "Priority"
)

// Derived columns appended to every record.
const (
	ColMonthYear = "Month-Year"
	ColMTTD      = "Final MTD"
	ColMTTR      = "Final MTR"
)

// RequiredColumns must all be present in an export.
var RequiredColumns = []string{
	ColOpenedAt,
	ColRespondedAt,
	ColRestoredAt,
	ColOpenedDate,
	ColCaseOrigin,
	ColPriority,
}

// DateColumns are coerced to timestamps on load.
var DateColumns = []string{ColOpenedAt, ColRespondedAt, ColRestoredAt, ColOpenedDate}

// DerivedColumns are recomputed on every load and never read from input.
var DerivedColumns = []string{ColMonthYear, ColMTTD, ColMTTR}

// Ticket is one row of the export. Timestamps and metrics are nil when
// unknown. Derived fields are set once by NewTable.
type Ticket struct {
	OpenedAt    *time.Time
	RespondedAt *time.Time
	RestoredAt  *time.Time
	OpenedDate  *time.Time
	CaseOrigin  string
	Priority    Priority
	RawPriority string

	Month *Month
	MTTD  *float64
	MTTR  *float64

	// Values holds the source cells aligned with Table.Headers.
	Values []string
	// Cells holds typed source values (numbers, dates, booleans) aligned with
	// Table.Headers when the input format carries types. Nil entries fall
	// back to the text in Values.
	Cells []any
}

// ParseTime coerces s into a timestamp. Naive values are read as UTC; values
// carrying an offset keep it, so month buckets follow the wall clock.
// Anything unparseable reports false rather than an error.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
