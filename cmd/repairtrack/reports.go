package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/metrics"
	"github.com/datsun80zx/repairtrack/internal/parser"
	"github.com/datsun80zx/repairtrack/internal/report"
)

// rangeFlags are the --from/--to flags shared by report commands
type rangeFlags struct {
	from, to string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "include jobs on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&r.to, "to", "", "include jobs on or before this date (YYYY-MM-DD)")
}

// resolve validates the flags and returns canonical days
func (r *rangeFlags) resolve() (string, string, error) {
	day := func(name, v string) (string, error) {
		if v == "" {
			return "", nil
		}
		t, err := parser.ParseDay(v)
		if err != nil {
			return "", fmt.Errorf("--%s: %w", name, err)
		}
		return t.Format("2006-01-02"), nil
	}
	from, err := day("from", r.from)
	if err != nil {
		return "", "", err
	}
	to, err := day("to", r.to)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print revenue and profit reports",
	}
	cmd.AddCommand(
		newTodayReportCmd(a),
		newDailyReportCmd(a),
		newWeeklyReportCmd(a),
		newPeriodReportCmd(a, "monthly", "Revenue and profit by month"),
		newPeriodReportCmd(a, "yearly", "Revenue and profit by year"),
		newCategoriesReportCmd(a),
		newRedFlagsReportCmd(a),
		newSummaryReportCmd(a),
	)
	return cmd
}

func (a *app) printPeriodTable(title, label string, rows []metrics.PeriodStats, extraTitle string, extra []decimal.Decimal) {
	width := 96
	fmt.Println(title)
	fmt.Println(strongRule(width))
	if extra != nil {
		fmt.Printf("%-10s  %6s  %15s  %15s  %15s  %9s  %15s\n",
			label, "Jobs", "Revenue", "Parts Cost", "Profit", "Margin %", extraTitle)
	} else {
		fmt.Printf("%-10s  %6s  %15s  %15s  %15s  %9s\n",
			label, "Jobs", "Revenue", "Parts Cost", "Profit", "Margin %")
	}
	fmt.Println(rule(width))

	var total metrics.PeriodStats
	total.Revenue, total.PartsCost, total.Profit = decimal.Zero, decimal.Zero, decimal.Zero
	for i, r := range rows {
		line := fmt.Sprintf("%-10s  %6d  %15s  %15s  %15s  %9s",
			truncate(r.Period, 10),
			r.Jobs,
			a.money(r.Revenue),
			a.money(r.PartsCost),
			a.money(r.Profit),
			percent(r.Margin),
		)
		if extra != nil {
			line += fmt.Sprintf("  %15s", a.money(extra[i]))
		}
		fmt.Println(line)

		total.Jobs += r.Jobs
		total.Revenue = total.Revenue.Add(r.Revenue)
		total.PartsCost = total.PartsCost.Add(r.PartsCost)
		total.Profit = total.Profit.Add(r.Profit)
	}
	fmt.Println(strongRule(width))
	fmt.Printf("Total: %d job(s), %s revenue, %s profit (%s margin)\n",
		total.Jobs,
		a.money(total.Revenue),
		a.money(total.Profit),
		percent(metrics.Margin(total.Profit, total.Revenue)),
	)
}

func newTodayReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Today's jobs, revenue and profit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}
			today := a.engine.TodayStats(list)

			fmt.Printf("Today (%s)\n", today.Period)
			fmt.Println(strongRule(40))
			fmt.Printf("Jobs:        %d\n", today.Jobs)
			fmt.Printf("Revenue:     %s\n", a.money(today.Revenue))
			fmt.Printf("Parts cost:  %s\n", a.money(today.PartsCost))
			fmt.Printf("Profit:      %s\n", a.money(today.Profit))
			fmt.Printf("Margin:      %s\n", percent(today.Margin))
			return nil
		},
	}
}

func newDailyReportCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "One row per day for the trailing window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 0 || days > metrics.MaxDailyWindow {
				return fmt.Errorf("--days must be from 0 to %d", metrics.MaxDailyWindow)
			}
			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}
			rows := a.engine.DailyStats(list, days)
			a.printPeriodTable(fmt.Sprintf("Daily Stats (last %d days)", days), "Day", rows, "", nil)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "number of days ending today")
	return cmd
}

func newWeeklyReportCmd(a *app) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Week-of-month breakdown for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if month == "" {
				month = a.engine.CurrentMonthKey()
			}
			if !metrics.IsMonthKey(month) {
				return fmt.Errorf("--month must be YYYY-MM, got %q", month)
			}
			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}
			rows := metrics.WeeklyStats(list, month)
			if len(rows) == 0 {
				fmt.Printf("No jobs found in %s\n", month)
				return nil
			}
			a.printPeriodTable(fmt.Sprintf("Weekly Stats for %s", month), "Week", rows, "", nil)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to break down (YYYY-MM, default current)")
	return cmd
}

func newPeriodReportCmd(a *app, name, short string) *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := rf.resolve()
			if err != nil {
				return err
			}
			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}
			list = jobs.InRange(list, from, to)

			var rows []metrics.PeriodStats
			var extra []decimal.Decimal
			var title, label, extraTitle string
			if name == "monthly" {
				title, label, extraTitle = "Monthly Stats", "Month", "Daily Avg"
				for _, m := range metrics.MonthlyStats(list) {
					rows = append(rows, m.PeriodStats)
					extra = append(extra, m.DailyAverage)
				}
			} else {
				title, label, extraTitle = "Yearly Stats", "Year", "Monthly Avg"
				for _, y := range metrics.YearlyStats(list) {
					rows = append(rows, y.PeriodStats)
					extra = append(extra, y.MonthlyAverage)
				}
			}

			if len(rows) == 0 {
				fmt.Println("No dated jobs found")
				return nil
			}
			printRange(from, to)
			a.printPeriodTable(title, label, rows, extraTitle, extra)
			return nil
		},
	}
	rf.register(cmd)
	return cmd
}

func newCategoriesReportCmd(a *app) *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Revenue by device brand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := rf.resolve()
			if err != nil {
				return err
			}
			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}
			stats := metrics.CategoryStats(jobs.InRange(list, from, to))
			if len(stats) == 0 {
				fmt.Println("No jobs found")
				return nil
			}

			printRange(from, to)
			fmt.Println("Revenue by Category")
			fmt.Println(strongRule(64))
			fmt.Printf("%-24s  %6s  %15s  %15s\n", "Category", "Jobs", "Revenue", "Avg Value")
			fmt.Println(rule(64))
			for _, c := range stats {
				fmt.Printf("%-24s  %6d  %15s  %15s\n",
					truncate(c.Category, 24),
					c.Count,
					a.money(c.Value),
					a.money(c.AverageValue),
				)
			}
			fmt.Println(strongRule(64))
			fmt.Printf("Total: %d categories\n", len(stats))
			return nil
		},
	}
	rf.register(cmd)
	return cmd
}

func newRedFlagsReportCmd(a *app) *cobra.Command {
	var rf rangeFlags
	var limit int
	cmd := &cobra.Command{
		Use:   "red-flags",
		Short: "Loss-making jobs, profit mismatches and bad dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := rf.resolve()
			if err != nil {
				return err
			}
			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}
			if from != "" || to != "" {
				list = jobs.InRange(list, from, to)
			}

			flags := report.FindRedFlags(list)
			if len(flags) == 0 {
				fmt.Println("✅ No red flags found")
				return nil
			}

			printRange(from, to)
			fmt.Println("🚩 Red Flags")
			fmt.Println(strongRule(110))
			fmt.Printf("%-10s  %-20s  %-18s  %12s  %12s  %12s  %-16s\n",
				"Date", "Customer", "Model", "Price", "Parts", "Profit", "Reasons")
			fmt.Println(rule(110))

			shown := flags
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			for _, f := range shown {
				reasons := make([]string, len(f.Reasons))
				for i, r := range f.Reasons {
					reasons[i] = string(r)
				}
				fmt.Printf("%-10s  %-20s  %-18s  %12s  %12s  %12s  %s\n",
					truncate(parser.DisplayDate(f.Job.Date), 10),
					truncate(f.Job.CustomerName, 20),
					truncate(f.Job.DeviceModel, 18),
					a.money(f.Job.Price),
					a.money(f.Job.PartsCost),
					a.money(f.Job.Profit),
					strings.Join(reasons, ", "),
				)
			}
			fmt.Println(strongRule(110))
			fmt.Printf("Total: %d flagged job(s)", len(flags))
			if len(shown) < len(flags) {
				fmt.Printf(", showing %d", len(shown))
			}
			fmt.Println()
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print (0 for all)")
	return cmd
}

func newSummaryReportCmd(a *app) *cobra.Command {
	var rf rangeFlags
	var output string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Write the HTML summary report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := rf.resolve()
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("repair-report-%s.html", a.engine.TodayKey())
			}
			if !strings.HasSuffix(strings.ToLower(output), ".html") {
				output += ".html"
			}

			fmt.Println("Generating summary report...")
			printRange(from, to)
			fmt.Println()

			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}
			summary := report.GenerateSummary(a.engine, list, from, to)

			renderer, err := report.NewRenderer(a.cfg.CurrencySymbol)
			if err != nil {
				return fmt.Errorf("initializing renderer: %w", err)
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer file.Close()

			if err := renderer.RenderSummary(file, summary); err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}

			absPath, _ := filepath.Abs(output)
			fmt.Printf("✅ Report generated: %s\n", absPath)
			fmt.Println()
			fmt.Println("📊 Report Summary:")
			fmt.Printf("   • %d jobs analyzed\n", summary.Totals.TotalJobs)
			fmt.Printf("   • %s total revenue\n", a.money(summary.Totals.TotalRevenue))
			fmt.Printf("   • %s net profit (%s margin)\n", a.money(summary.Totals.NetProfit), percent(summary.Totals.Margin))
			if summary.JobsWithLoss > 0 {
				fmt.Printf("   • ⚠️  %d jobs with losses totaling %s\n", summary.JobsWithLoss, a.money(summary.TotalLoss))
			}
			if len(summary.RedFlags) > 0 {
				fmt.Printf("   • 🚩 %d red flags\n", len(summary.RedFlags))
			}
			fmt.Println()
			fmt.Println("💡 Open the HTML file in your browser and print to PDF (Cmd+P / Ctrl+P)")
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default repair-report-DATE.html)")
	return cmd
}
