package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

// DefaultInternalOrigins are the case origins whose tickets are detected at
// open time, so their MTTD is zero by definition.
var DefaultInternalOrigins = []string{"internal call logging", "web"}

// Metric names one of the two derived durations.
type Metric string

const (
	MetricMTTD Metric = "mttd"
	MetricMTTR Metric = "mttr"
)

// Metrics lists both metrics in report order.
var Metrics = []Metric{MetricMTTD, MetricMTTR}

// ParseMetric accepts "mttd" or "mttr" in any case.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if m != MetricMTTD && m != MetricMTTR {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return m, nil
}

// Label is the upper-case short name used in headers ("MTTD").
func (m Metric) Label() string { return strings.ToUpper(string(m)) }

// Column is the name of the derived column holding the metric.
func (m Metric) Column() string {
	if m == MetricMTTD {
		return ColMTTD
	}
	return ColMTTR
}

// Value returns the metric of t, nil when unknown.
func (m Metric) Value(t Ticket) *float64 {
	if m == MetricMTTD {
		return t.MTTD
	}
	return t.MTTR
}

// Calculator derives the per-ticket metrics. It is pure and never fails.
type Calculator struct {
	internal map[string]struct{}
}

// NewCalculator builds a Calculator treating origins as internal. With no
// origins it falls back to DefaultInternalOrigins.
func NewCalculator(origins ...string) Calculator {
	if len(origins) == 0 {
		origins = DefaultInternalOrigins
	}
	return Calculator{
		internal: lo.SliceToMap(origins, func(o string) (string, struct{}) {
			return foldOrigin(o), struct{}{}
		}),
	}
}

// IsInternal reports whether origin is one of the internal origins.
func (c Calculator) IsInternal(origin string) bool {
	_, ok := c.internal[foldOrigin(origin)]
	return ok
}

// MTTD is 0 for internal origins, otherwise responded - opened in minutes.
func (c Calculator) MTTD(t Ticket) *float64 {
	if c.IsInternal(t.CaseOrigin) {
		return lo.ToPtr(0.0)
	}
	return minutesBetween(t.OpenedAt, t.RespondedAt)
}

// MTTR is restored - opened in minutes.
func (c Calculator) MTTR(t Ticket) *float64 {
	return minutesBetween(t.OpenedAt, t.RestoredAt)
}

// minutesBetween is signed: inconsistent data yields a negative duration.
func minutesBetween(from, to *time.Time) *float64 {
	if from == nil || to == nil {
		return nil
	}
	return lo.ToPtr(to.Sub(*from).Minutes())
}

func foldOrigin(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
