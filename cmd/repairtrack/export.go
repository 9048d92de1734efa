package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datsun80zx/repairtrack/internal/export"
	"github.com/datsun80zx/repairtrack/internal/metrics"
)

func newExportCmd(a *app) *cobra.Command {
	var rf rangeFlags
	var format, columns, preset, output string
	var summary bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export jobs as csv, xlsx or pdf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if summary {
				if output == "" {
					output = export.SummaryFileName(f, a.engine.CurrentMonthKey())
				}
				if err := export.WriteSummary(&buf, f, metrics.MonthlyStats(list)); err != nil {
					return err
				}
			} else {
				opts := export.Options{Format: f, Today: a.engine.Today()}
				if opts.From, opts.To, err = rf.resolve(); err != nil {
					return err
				}
				if opts.Columns, err = export.ParseColumns(columns); err != nil {
					return err
				}
				if opts.Preset, err = export.ParsePreset(preset); err != nil {
					return err
				}
				if output == "" {
					output = export.FileName(f, a.engine.Today())
				}
				if err := export.Write(&buf, list, opts); err != nil {
					return err
				}
			}

			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			absPath, _ := filepath.Abs(output)
			fmt.Printf("✅ Exported %s\n", absPath)
			return nil
		},
	}

	rf.register(cmd)
	f := cmd.Flags()
	f.StringVar(&format, "format", "csv", "csv, xlsx or pdf")
	f.StringVar(&columns, "columns", "", "comma separated columns (default all but partsCost)")
	f.StringVar(&preset, "preset", "", "all, this-month or customers")
	f.BoolVar(&summary, "summary", false, "export monthly aggregates instead of jobs")
	f.StringVarP(&output, "output", "o", "", "file to write (default repair-jobs-DATE.<format>)")
	return cmd
}
