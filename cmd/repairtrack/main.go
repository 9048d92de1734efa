package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datsun80zx/repairtrack/internal/config"
	"github.com/datsun80zx/repairtrack/internal/metrics"
)

// sourceAnnotation on a command forces the job source it needs
const sourceAnnotation = "source"

const longUsage = `Repair shop job tracker

Reads the shop's job sheet (through its Apps Script web app, a Postgres
mirror, or a CSV export) and reports revenue, parts cost and profit by day,
week, month, year and device brand.

Configuration comes from the environment or a .env file:
  JOB_SOURCE          sheets | postgres | memory (default sheets)
  APPS_SCRIPT_URL     Apps Script web app URL for the sheets source
  DATABASE_URL        Postgres DSN for the postgres source, import and list
  REPORT_TIMEZONE     time zone that decides "today" (default UTC)

Examples:
  repairtrack report monthly
  repairtrack report daily --days 7 --file jobs.csv
  repairtrack report summary --output march.html --from 2024-03-01 --to 2024-03-31
  repairtrack import jobs-export.csv
  repairtrack export --format xlsx --preset this-month
  repairtrack serve`

type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	engine *metrics.Engine

	source string
	file   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "repairtrack",
		Short:         "Repair shop job tracker",
		Long:          longUsage,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.source, "source", "", "job source: sheets, postgres or memory (overrides JOB_SOURCE)")
	root.PersistentFlags().StringVar(&a.file, "file", "", "read jobs from a CSV export instead of the configured source")

	root.AddCommand(
		newImportCmd(a),
		newListCmd(a),
		newJobsCmd(a),
		newReportCmd(a),
		newExportCmd(a),
		newServeCmd(a),
		newNotifyCmd(a),
	)
	return root
}

// setup loads configuration once the command line is parsed
func (a *app) setup(cmd *cobra.Command) error {
	source := a.source
	if a.file != "" {
		source = config.SourceMemory
	}
	for c := cmd; c != nil; c = c.Parent() {
		if s := c.Annotations[sourceAnnotation]; s != "" {
			source = s
			break
		}
	}

	cfg, err := config.Load(map[string]string{"JOB_SOURCE": source})
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = config.NewLogger(cfg.LogLevel, cfg.LogJSON)
	a.engine = metrics.NewEngine(loc)
	return nil
}
