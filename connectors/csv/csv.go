package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mttr-dashboard/domain/report"
	"mttr-dashboard/domain/ticket"
)

// Summary file names written by WriteSummaries.
const (
	MTTDSummaryFile = "mttd_summary.csv"
	MTTRSummaryFile = "mttr_summary.csv"
)

// Load reads a CSV ticket export. The first record holds the headers; rows
// may have fewer or more fields than the header.
func Load(r io.Reader, opts ...ticket.Option) (*ticket.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var headers []string
	if len(records) > 0 {
		headers, records = records[0], records[1:]
		if len(headers) > 0 {
			headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
		}
	}
	return ticket.NewTable(headers, records, opts...)
}

// WriteSummaries writes both full summaries of r into dir.
func WriteSummaries(dir string, r *report.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := WriteSummary(filepath.Join(dir, MTTDSummaryFile), r.MTTD.Summary); err != nil {
		return err
	}
	return WriteSummary(filepath.Join(dir, MTTRSummaryFile), r.MTTR.Summary)
}

// WriteSummary writes one full summary including the trailing AVG row.
// Blank cells are written as empty fields.
func WriteSummary(path string, s report.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(s.Header()); err != nil {
		return err
	}
	for _, rec := range s.Records() {
		row := make([]string, len(rec))
		for i, v := range rec {
			row[i] = formatCell(v)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
