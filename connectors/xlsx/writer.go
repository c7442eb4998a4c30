package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"mttr-dashboard/domain/report"
	"mttr-dashboard/domain/ticket"
)

// Download metadata of the exported workbook.
const (
	FileName    = "MTTD_MTTR_Report.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Sheet names of the exported workbook.
const (
	SheetMain = "Main Data"
	SheetMTTD = "MTTD Summary"
	SheetMTTR = "MTTR Summary"
)

// Export writes the three-sheet report: the filtered records followed by
// the full MTTD and MTTR summaries.
func Export(w io.Writer, r *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetMain); err != nil {
		return err
	}
	if err := writeMain(f, r.Filtered); err != nil {
		return fmt.Errorf("write %s: %w", SheetMain, err)
	}
	for _, s := range []struct {
		name    string
		summary report.Summary
	}{
		{SheetMTTD, r.MTTD.Summary},
		{SheetMTTR, r.MTTR.Summary},
	} {
		if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeSummary(f, s.name, s.summary); err != nil {
			return fmt.Errorf("write %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	_, err := f.WriteTo(w)
	return err
}

// ExportBytes renders the workbook in memory.
func ExportBytes(r *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMain(f *excelize.File, tb *ticket.Table) error {
	if err := writeRow(f, SheetMain, 1, toAny(tb.Columns())); err != nil {
		return err
	}
	for i, t := range tb.Tickets {
		if err := writeRow(f, SheetMain, i+2, tb.Record(t)); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, sheet string, s report.Summary) error {
	if err := writeRow(f, sheet, 1, toAny(s.Header())); err != nil {
		return err
	}
	for i, rec := range s.Records() {
		if err := writeRow(f, sheet, i+2, rec); err != nil {
			return err
		}
	}
	return nil
}

// writeRow writes cells left to right from column A; nil cells stay empty.
// Times are written on their own wall clock, as Excel dates carry no zone.
func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	for col, v := range cells {
		if v == nil {
			continue
		}
		if t, ok := v.(time.Time); ok {
			v = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		}
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
