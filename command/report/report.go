package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	ccsv "mttr-dashboard/connectors/csv"
	"mttr-dashboard/connectors/upload"
	"mttr-dashboard/connectors/xlsx"
	dconfig "mttr-dashboard/domain/config"
	dreport "mttr-dashboard/domain/report"
	"mttr-dashboard/domain/ticket"
)

// Run builds the MTTD/MTTR workbook from a ticket export without the web UI.
//
// Usage:
//
//	mttr-dashboard report --in tickets.xlsx [--out MTTD_MTTR_Report.xlsx]
//	    [--month Jan-2025,Feb-2025] [--priority P1,P2] [--csv-dir ./out]
//
// Without --month or --priority every value present in the export is kept.
// Passing an empty list (--month=) selects nothing on that axis.
func Run(cfg *dconfig.Config, logger *zap.Logger, args []string) error {
	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
	in := fs.StringP("in", "i", "", "ticket export to read (.xlsx or .csv)")
	out := fs.StringP("out", "o", xlsx.FileName, "workbook to write")
	months := fs.StringSlice("month", nil, "months to include (Mon-YYYY)")
	priorities := fs.StringSlice("priority", nil, "priorities to include (P1..P5)")
	csvDir := fs.String("csv-dir", "", "also write the summaries as CSV into this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("report: --in is required")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	var opts []ticket.Option
	if len(cfg.Report.InternalOrigins) > 0 {
		opts = append(opts, ticket.WithInternalOrigins(cfg.Report.InternalOrigins...))
	}
	tb, err := upload.Parse(filepath.Base(*in), data, opts...)
	if err != nil {
		return fmt.Errorf("read %s: %w", *in, err)
	}
	logger.Info("report.loaded", zap.String("file", *in), zap.Int("tickets", len(tb.Tickets)))

	sel := dreport.Options(tb)
	if fs.Changed("month") {
		if sel.Months, err = dreport.ParseMonths(*months); err != nil {
			return fmt.Errorf("--month: %w", err)
		}
	}
	if fs.Changed("priority") {
		if sel.Priorities, err = dreport.ParsePriorities(*priorities); err != nil {
			return fmt.Errorf("--priority: %w", err)
		}
	}

	r := dreport.Build(tb, &sel)
	if r.MTTD.Pivot.Empty() {
		logger.Warn("report.empty", zap.Int("months", len(sel.Months)), zap.Int("priorities", len(sel.Priorities)))
	}

	if err := writeWorkbook(*out, r); err != nil {
		return err
	}
	if *csvDir != "" {
		if err := ccsv.WriteSummaries(*csvDir, r); err != nil {
			return err
		}
	}

	logger.Info("report.done",
		zap.String("out", *out),
		zap.Int("count", len(r.Filtered.Tickets)),
		zap.Int("months", len(r.MTTD.Summary.Rows)))
	return nil
}

func writeWorkbook(path string, r *dreport.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := xlsx.Export(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
