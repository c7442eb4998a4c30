package upload

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mttr-dashboard/domain/ticket"
)

const csvExport = "Date/Time Opened,Responded Date/Time,Service Restored Date,Opened Date,Case Origin,Priority\n" +
	"2025-05-01 10:00,2025-05-01 10:30,2025-05-01 12:00,2025-05-01,Phone,P2\n"

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := []any{"Date/Time Opened", "Responded Date/Time", "Service Restored Date", "Opened Date", "Case Origin", "Priority"}
	row := []any{
		time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
		nil,
		"Phone",
		"P2",
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	book := workbookBytes(t)

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"csv by extension", "tickets.csv", []byte(csvExport)},
		{"xlsx by extension", "tickets.XLSX", book},
		{"xlsx sniffed", "download", book},
		{"csv sniffed", "download", []byte(csvExport)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, err := Parse(tt.file, tt.data)
			require.NoError(t, err)
			require.Len(t, tb.Tickets, 1)
			assert.Equal(t, 30.0, *tb.Tickets[0].MTTD)
			assert.Equal(t, 120.0, *tb.Tickets[0].MTTR)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("corrupt workbook", func(t *testing.T) {
		_, err := Parse("tickets.xlsx", []byte("PK\x03\x04garbage"))
		assert.ErrorIs(t, err, ErrUnreadable)
	})

	t.Run("missing column is not wrapped", func(t *testing.T) {
		_, err := Parse("tickets.csv", []byte("Priority\nP1\n"))
		var missing *ticket.MissingColumnError
		assert.ErrorAs(t, err, &missing)
		assert.NotErrorIs(t, err, ErrUnreadable)
	})

	t.Run("options are forwarded", func(t *testing.T) {
		tb, err := Parse("tickets.csv", []byte(csvExport), ticket.WithInternalOrigins("phone"))
		require.NoError(t, err)
		assert.Equal(t, 0.0, *tb.Tickets[0].MTTD)
	})
}
