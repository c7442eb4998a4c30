package ticket

import (
	"fmt"
	"strings"
)

// Priority is the ordinal severity of a ticket. The zero value is an
// unrecognized priority: it keeps its raw text in the record but never takes
// part in ordering, grouping or filtering.
type Priority int

const (
	PriorityUnknown Priority = iota
	P1
	P2
	P3
	P4
	P5
)

// Priorities lists the recognized levels in their fixed display order.
var Priorities = []Priority{P1, P2, P3, P4, P5}

var priorityColors = map[Priority]string{
	P1: "#EF553B", // red
	P2: "#636EFA", // blue
	P3: "#00CC96", // green
	P4: "#AB63FA", // purple
	P5: "#FFA15A", // orange
}

// ParsePriority maps "P1".."P5" (surrounding whitespace ignored) to a Priority.
func ParsePriority(s string) (Priority, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if s == p.String() {
			return p, true
		}
	}
	return PriorityUnknown, false
}

func (p Priority) Valid() bool { return p >= P1 && p <= P5 }

func (p Priority) String() string {
	if !p.Valid() {
		return ""
	}
	return fmt.Sprintf("P%d", int(p))
}

// Index is the zero-based position of p in Priorities, or -1.
func (p Priority) Index() int {
	if !p.Valid() {
		return -1
	}
	return int(p) - 1
}

// Color is the chart colour assigned to p.
func (p Priority) Color() string { return priorityColors[p] }

func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Priority) UnmarshalText(b []byte) error {
	v, ok := ParsePriority(string(b))
	if !ok {
		return fmt.Errorf("unknown priority %q", string(b))
	}
	*p = v
	return nil
}
