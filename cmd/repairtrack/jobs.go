package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

func newJobsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List, add and delete jobs in the configured store",
	}
	cmd.AddCommand(newJobsListCmd(a), newJobsAddCmd(a), newJobsDeleteCmd(a))
	return cmd
}

func newJobsListCmd(a *app) *cobra.Command {
	var query, period string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := jobs.ParsePeriod(period)
			if err != nil {
				return err
			}
			list, err := a.loadJobs(cmd.Context())
			if err != nil {
				return err
			}
			list = jobs.Search(list, query)
			list = jobs.FilterByPeriod(list, p, a.engine.Today())
			list = jobs.SortByDateDesc(list)

			if len(list) == 0 {
				fmt.Println("No jobs found")
				return nil
			}

			total := len(list)
			if limit > 0 && len(list) > limit {
				list = list[:limit]
			}

			fmt.Println("Jobs")
			fmt.Println(strongRule(118))
			fmt.Printf("%-8s  %-10s  %-20s  %-12s  %-18s  %-16s  %12s  %12s\n",
				"ID", "Date", "Customer", "Mobile", "Model", "Work Done", "Price", "Profit")
			fmt.Println(rule(118))
			for _, j := range list {
				fmt.Printf("%-8s  %-10s  %-20s  %-12s  %-18s  %-16s  %12s  %12s\n",
					truncate(j.ID, 8),
					truncate(parser.DisplayDate(j.Date), 10),
					truncate(j.CustomerName, 20),
					truncate(j.Mobile, 12),
					truncate(j.DeviceModel, 18),
					truncate(j.WorkDescription, 16),
					a.money(j.Price),
					a.money(j.Profit),
				)
			}
			fmt.Println(strongRule(118))
			fmt.Printf("Total: %d job(s)", total)
			if len(list) < total {
				fmt.Printf(", showing %d", len(list))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search customer name, mobile or model")
	cmd.Flags().StringVar(&period, "period", "all", "all, today, this-week, this-month or last-month")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print (0 for all)")
	return cmd
}

func newJobsAddCmd(a *app) *cobra.Command {
	var job jobs.Job
	var price, parts, profit string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a completed job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if job.Price, err = decimal.NewFromString(price); err != nil {
				return fmt.Errorf("--price: %w", err)
			}
			if job.PartsCost, err = decimal.NewFromString(parts); err != nil {
				return fmt.Errorf("--parts: %w", err)
			}
			if profit == "" {
				job = job.WithDerivedProfit()
			} else if job.Profit, err = decimal.NewFromString(profit); err != nil {
				return fmt.Errorf("--profit: %w", err)
			}

			if job.Date == "" {
				job.Date = a.engine.TodayKey()
			}
			job.Date = parser.NormalizeDate(job.Date)
			if err := job.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			s, release, err := a.openStore(ctx, nil)
			if err != nil {
				return err
			}
			defer release()

			if err := s.AddJob(ctx, job); err != nil {
				return fmt.Errorf("adding job: %w", err)
			}
			fmt.Printf("✅ Added job for %s (%s, %s)\n", job.CustomerName, job.Date, a.money(job.Price))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&job.Date, "date", "", "job date (default today)")
	f.StringVar(&job.CustomerName, "customer", "", "customer name")
	f.StringVar(&job.Mobile, "mobile", "", "customer mobile")
	f.StringVar(&job.DeviceModel, "model", "", "device model, brand first")
	f.StringVar(&job.WorkDescription, "work", "", "work done")
	f.StringVar(&price, "price", "0", "price charged")
	f.StringVar(&parts, "parts", "0", "parts cost")
	f.StringVar(&profit, "profit", "", "profit (default price - parts)")
	for _, name := range []string{"customer", "mobile", "model", "work", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newJobsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, release, err := a.openStore(ctx, nil)
			if err != nil {
				return err
			}
			defer release()

			if err := s.DeleteJob(ctx, args[0]); err != nil {
				return fmt.Errorf("deleting job %s: %w", args[0], err)
			}
			fmt.Printf("✅ Deleted job %s\n", args[0])
			return nil
		},
	}
}
