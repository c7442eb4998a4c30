package ticket

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MonthLayout is the display format of a month bucket, e.g. "Jan-2025".
const MonthLayout = "Jan-2006"

// Month is a calendar-month bucket. Ordering is chronological, never by label.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the bucket containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "Mon-YYYY" label.
func ParseMonth(label string) (Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(label))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: expected Mon-YYYY", label)
	}
	return MonthOf(t), nil
}

// Start is midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) String() string { return m.Start().Format(MonthLayout) }

func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Month) UnmarshalText(b []byte) error {
	v, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// SortMonths orders ms chronologically in place.
func SortMonths(ms []Month) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].Before(ms[j]) })
}
