package csv

import (
	encsv "encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mttr-dashboard/domain/report"
	"mttr-dashboard/domain/ticket"
)

const export = "\ufeffCase Number,Date/Time Opened,Responded Date/Time,Service Restored Date,Opened Date,Case Origin,Priority\n" +
	"A,2025-01-01 00:00,2025-01-01 00:10,2025-01-01 01:00,2025-01-01,Web,P1\n" +
	"B,2025-01-01 00:00,2025-01-01 00:05,2025-01-01 00:30,2025-01-01,Phone,P1\n" +
	"C,2025-03-10 12:00,,2025-03-10 14:00,2025-03-10,\"Internal Call Logging\",P2,extra\n"

func TestLoad(t *testing.T) {
	tb, err := Load(strings.NewReader(export))
	require.NoError(t, err)

	assert.Equal(t, "Case Number", tb.Headers[0], "BOM is stripped")
	require.Len(t, tb.Tickets, 3)
	assert.Equal(t, 5.0, *tb.Tickets[1].MTTD)
	assert.Equal(t, 0.0, *tb.Tickets[2].MTTD)
	assert.Equal(t, 120.0, *tb.Tickets[2].MTTR)
}

func TestLoadMissingColumn(t *testing.T) {
	_, err := Load(strings.NewReader("Case Number,Priority\nA,P1\n"))
	var missing *ticket.MissingColumnError
	assert.ErrorAs(t, err, &missing)
}

func TestWriteSummaries(t *testing.T) {
	tb, err := Load(strings.NewReader(export))
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, WriteSummaries(dir, report.Build(tb, nil)))

	f, err := os.Open(filepath.Join(dir, MTTDSummaryFile))
	require.NoError(t, err)
	defer f.Close()
	rows, err := encsv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4, "header, Jan, Mar, AVG")
	assert.Equal(t, "P1 (AVG MTTD)", rows[0][3])
	assert.Equal(t, []string{"Jan-2025", "2", "5", "2.5"}, rows[1][:4])
	assert.Equal(t, []string{"Mar-2025", "0", "0", "0"}, rows[2][:4])
	assert.Equal(t, "AVG", rows[3][0])
	assert.Equal(t, "1.25", rows[3][3])

	_, err = os.Stat(filepath.Join(dir, MTTRSummaryFile))
	assert.NoError(t, err)
}
