package ticket

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportHeaders = []string{
	"Case Number",
	"Date/Time Opened",
	"Responded Date/Time",
	"Service Restored Date",
	"Opened Date",
	"Case Origin",
	"Priority",
}

func TestNewTableScenario(t *testing.T) {
	rows := [][]string{
		{"A", "2025-01-01 00:00", "2025-01-01 00:10", "2025-01-01 01:00", "2025-01-01", "Web", "P1"},
		{"B", "2025-01-01 00:00", "2025-01-01 00:05", "2025-01-01 00:30", "2025-01-01", "Phone", "P1"},
	}

	tb, err := NewTable(exportHeaders, rows)
	require.NoError(t, err)
	require.Len(t, tb.Tickets, 2)

	a, b := tb.Tickets[0], tb.Tickets[1]
	assert.Equal(t, 0.0, *a.MTTD)
	assert.Equal(t, 5.0, *b.MTTD)
	assert.Equal(t, 60.0, *a.MTTR)
	assert.Equal(t, 30.0, *b.MTTR)
	assert.Equal(t, "Jan-2025", a.Month.String())
	assert.Equal(t, P1, b.Priority)
}

func TestNewTableMissingColumns(t *testing.T) {
	_, err := NewTable([]string{"Case Number", "Priority", "Case Origin"}, nil)

	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{ColOpenedAt, ColRespondedAt, ColRestoredAt, ColOpenedDate}, missing.Columns)
	assert.Contains(t, err.Error(), "Service Restored Date")
}

func TestNewTableCoercion(t *testing.T) {
	headers := append([]string{}, exportHeaders...)
	headers = append(headers, "Month-Year", "Final MTD")
	rows := [][]string{
		{"C", "garbage", "2025-02-01 00:05", "", "", "Phone", "Critical", "Dec-1999", "42"},
		{"", "", "", "", "", "", ""},
		{"D", "2025-02-01 00:00"},
	}

	tb, err := NewTable(headers, rows)
	require.NoError(t, err)

	// Derived columns from the input are dropped and recomputed.
	assert.Equal(t, exportHeaders, tb.Headers)
	require.Len(t, tb.Tickets, 2, "blank row is skipped")

	c := tb.Tickets[0]
	assert.Nil(t, c.OpenedAt)
	assert.Nil(t, c.MTTD)
	assert.Nil(t, c.MTTR)
	assert.Nil(t, c.Month)
	assert.Equal(t, PriorityUnknown, c.Priority)
	assert.Equal(t, "Critical", c.RawPriority)

	d := tb.Tickets[1]
	require.NotNil(t, d.OpenedAt)
	assert.Equal(t, "", d.Values[len(d.Values)-1], "short rows are padded")
}

func TestTableRecord(t *testing.T) {
	rows := [][]string{
		{"A", "2025-01-01 00:00", "", "2025-01-01 01:00", "2025-01-01", "Phone", "P9"},
	}
	tb, err := NewTable(exportHeaders, rows)
	require.NoError(t, err)

	cols := tb.Columns()
	rec := tb.Record(tb.Tickets[0])
	require.Len(t, rec, len(cols))
	assert.Equal(t, "Final MTR", cols[len(cols)-1])

	assert.Equal(t, "A", rec[0])
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rec[1])
	assert.Nil(t, rec[2])
	assert.Equal(t, "P9", rec[6], "unrecognized priority keeps its text")
	assert.Equal(t, "Jan-2025", rec[7])
	assert.Nil(t, rec[8])
	assert.Equal(t, 60.0, rec[9])
}

func TestWithInternalOrigins(t *testing.T) {
	rows := [][]string{
		{"A", "2025-01-01 00:00", "2025-01-01 00:10", "", "", "Web", "P2"},
	}
	tb, err := NewTable(exportHeaders, rows, WithInternalOrigins("monitoring"))
	require.NoError(t, err)
	assert.Equal(t, 10.0, *tb.Tickets[0].MTTD)
}

func TestNewTableBucketsOnWallClock(t *testing.T) {
	rows := [][]string{
		{"A", "2025-01-31T22:00:00-05:00", "", "2025-01-31T23:30:00-05:00", "", "Phone", "P2"},
	}
	tb, err := NewTable(exportHeaders, rows)
	require.NoError(t, err)
	a := tb.Tickets[0]
	assert.Equal(t, "Jan-2025", a.Month.String())
	assert.Equal(t, 90.0, *a.MTTR)
}

func TestWithTypedCells(t *testing.T) {
	headers := append([]string{ColMonthYear}, exportHeaders...)
	headers = append(headers, "Cost")
	rows := [][]string{
		{"Jan-2025", "1001", "2025-01-01 00:00", "", "2025-01-01 01:00", "", "Phone", "P1", "1.5"},
		{"Jan-2025", "1002", "2025-01-01 00:00", "", "2025-01-01 01:00", "", "Phone", "P1", "n/a"},
	}
	cells := [][]any{
		{nil, 1001.0, nil, nil, nil, nil, nil, nil, 1.5},
	}

	tb, err := NewTable(headers, rows, WithTypedCells(cells))
	require.NoError(t, err)
	require.Len(t, tb.Tickets, 2)

	rec := tb.Record(tb.Tickets[0])
	assert.Equal(t, 1001.0, rec[0], "typed cells follow the dropped derived column")
	assert.Equal(t, 1.5, rec[7])
	assert.Equal(t, "P1", rec[6])

	rec = tb.Record(tb.Tickets[1])
	assert.Nil(t, tb.Tickets[1].Cells)
	assert.Equal(t, "1002", rec[0])
	assert.Equal(t, "n/a", rec[7])
}
