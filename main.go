package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	cmdreport "mttr-dashboard/command/report"
	cmdweb "mttr-dashboard/command/web"
	"mttr-dashboard/connectors/config"
)

// MTTD/MTTR dashboard for support ticket exports.
// Usage:
//   mttr-dashboard web [--addr :8080]
//   mttr-dashboard report --in tickets.xlsx [--out report.xlsx] [--month Jan-2025] [--priority P1]
// Notes:
// - Configuration comes from the YAML file at CONFIG_PATH (default ./config.yml), then env vars.
// - MTTD is minutes from open to first response (0 for internal origins); MTTR is minutes from
//   open to service restored. Both are averaged per restore month and priority.

const usage = "usage: mttr-dashboard web [--addr :8080] | report --in <file> [--out <file>] [--month <list>] [--priority <list>] [--csv-dir <dir>]\n" +
	"ENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)"

func main() {
	os.Exit(run(os.Args))
}

// run executes one subcommand and returns the process exit code, so deferred
// cleanup always happens before exit.
func run(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub := args[1]
	rest := append([]string{}, args[2:]...)
	switch sub {
	case "web":
		err = cmdweb.Run(ctx, cfg, logger, rest)
	case "report":
		err = cmdreport.Run(cfg, logger, rest)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	if err != nil {
		logger.Error(sub+".failed", zap.Error(err))
		return 1
	}
	return 0
}
