package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthLabelRoundTrip(t *testing.T) {
	m := MonthOf(time.Date(2025, time.March, 17, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, "Mar-2025", m.String())

	parsed, err := ParseMonth("Mar-2025")
	require.NoError(t, err)
	assert.Equal(t, m, parsed)

	_, err = ParseMonth("2025-03")
	assert.Error(t, err)
}

func TestSortMonthsIsChronological(t *testing.T) {
	ms := []Month{
		{Year: 2025, Month: time.December},
		{Year: 2024, Month: time.November},
		{Year: 2025, Month: time.January},
		{Year: 2025, Month: time.April},
	}
	SortMonths(ms)

	labels := make([]string, len(ms))
	for i, m := range ms {
		labels[i] = m.String()
	}
	// Lexical order would put Apr and Dec before Jan.
	assert.Equal(t, []string{"Nov-2024", "Jan-2025", "Apr-2025", "Dec-2025"}, labels)
}

func TestPriority(t *testing.T) {
	p, ok := ParsePriority(" P3 ")
	require.True(t, ok)
	assert.Equal(t, P3, p)
	assert.Equal(t, 2, p.Index())
	assert.Equal(t, "#00CC96", p.Color())

	p, ok = ParsePriority("Critical")
	assert.False(t, ok)
	assert.False(t, p.Valid())
	assert.Equal(t, -1, p.Index())
	assert.Equal(t, "", p.String())
}
