// Package upload turns uploaded bytes into a ticket table, whatever the format.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ccsv "mttr-dashboard/connectors/csv"
	"mttr-dashboard/connectors/xlsx"
	"mttr-dashboard/domain/ticket"
)

// ErrUnreadable wraps any failure to decode an upload other than a missing
// required column.
var ErrUnreadable = errors.New("unreadable ticket export")

var zipMagic = []byte("PK\x03\x04")

// Parse decodes data as a workbook or a CSV export. The extension of name
// decides; without a known extension the content is sniffed.
func Parse(name string, data []byte, opts ...ticket.Option) (*ticket.Table, error) {
	var (
		tb  *ticket.Table
		err error
	)
	if IsWorkbook(name, data) {
		tb, err = xlsx.Load(bytes.NewReader(data), opts...)
	} else {
		tb, err = ccsv.Load(bytes.NewReader(data), opts...)
	}
	if err != nil {
		var missing *ticket.MissingColumnError
		if errors.As(err, &missing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return tb, nil
}

// IsWorkbook reports whether the upload should be read as an Excel workbook.
func IsWorkbook(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	case ".csv", ".txt":
		return false
	}
	return bytes.HasPrefix(data, zipMagic)
}
