// Package xlsx reads ticket exports from and writes reports to Excel workbooks.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"mttr-dashboard/domain/ticket"
)

// ErrNoSheet is returned for a workbook without any worksheet.
var ErrNoSheet = errors.New("xlsx: workbook has no sheets")

// Load parses the first worksheet of the workbook in r. The first row holds
// the headers. Date cells stored as serial numbers are decoded with the
// workbook's epoch; text dates go through ticket.ParseTime. Other columns keep
// their cell type: numbers, date-formatted numbers and booleans.
func Load(r io.Reader, opts ...ticket.Option) (*ticket.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var date1904 bool
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	var headers []string
	if len(rows) > 0 {
		headers, rows = rows[0], rows[1:]
	}
	cells, err := typedCells(f, sheets[0], rows, date1904)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	opts = append(opts, ticket.WithTimeParser(serialOrText(date1904)), ticket.WithTypedCells(cells))
	return ticket.NewTable(headers, rows, opts...)
}

// typedCells resolves the type of every non-text data cell. rows start at
// sheet row 2.
func typedCells(f *excelize.File, sheet string, rows [][]string, date1904 bool) ([][]any, error) {
	cells := make([][]any, len(rows))
	for r, row := range rows {
		for c, raw := range row {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			v, err := typedCell(f, sheet, name, raw, date1904)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", name, err)
			}
			if v == nil {
				continue
			}
			if cells[r] == nil {
				cells[r] = make([]any, len(row))
			}
			cells[r][c] = v
		}
	}
	return cells, nil
}

func typedCell(f *excelize.File, sheet, name, raw string, date1904 bool) (any, error) {
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeDate:
		if t, ok := ticket.ParseTime(raw); ok {
			return t, nil
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, nil
		}
		isDate, err := hasDateFormat(f, sheet, name)
		if err != nil {
			return nil, err
		}
		if !isDate {
			return v, nil
		}
		if t, ok := serialOrText(date1904)(raw); ok {
			return t, nil
		}
	}
	return nil, nil
}

// hasDateFormat reports whether the cell's number format renders a date or time.
func hasDateFormat(f *excelize.File, sheet, name string) (bool, error) {
	id, err := f.GetCellStyle(sheet, name)
	if err != nil || id == 0 {
		return false, err
	}
	style, err := f.GetStyle(id)
	if err != nil {
		return false, err
	}
	if style.CustomNumFmt != nil {
		return isDateLayout(*style.CustomNumFmt), nil
	}
	n := style.NumFmt
	return (n >= 14 && n <= 22) || (n >= 27 && n <= 36) || (n >= 45 && n <= 47) || (n >= 50 && n <= 58), nil
}

// isDateLayout spots date or time tokens in a custom number format, ignoring
// quoted literals, escaped characters and bracketed colour or locale codes.
func isDateLayout(layout string) bool {
	var b strings.Builder
	quoted, bracket := false, false
	for i := 0; i < len(layout); i++ {
		ch := layout[i]
		switch {
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '[':
			bracket = true
		case ch == ']':
			bracket = false
		case bracket:
		case ch == '\\':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "ydmhs")
}

// serialOrText decodes Excel serial dates, falling back to text parsing.
func serialOrText(date1904 bool) func(string) (time.Time, bool) {
	return func(s string) (time.Time, bool) {
		s = strings.TrimSpace(s)
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			if v <= 0 {
				return time.Time{}, false
			}
			t, err := excelize.ExcelDateToTime(v, date1904)
			if err != nil {
				return time.Time{}, false
			}
			return t.UTC().Round(time.Millisecond), true
		}
		return ticket.ParseTime(s)
	}
}
