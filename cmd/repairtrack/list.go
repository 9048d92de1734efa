package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datsun80zx/repairtrack/internal/config"
	"github.com/datsun80zx/repairtrack/internal/importer"
	"github.com/datsun80zx/repairtrack/internal/store"
)

func newListCmd(a *app) *cobra.Command {
	var limit int32

	cmd := &cobra.Command{
		Use:         "list",
		Short:       "List import history",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{sourceAnnotation: config.SourcePostgres},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			database, err := store.Open(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			batches, err := importer.NewImporter(database, a.log).ListBatches(ctx, limit)
			if err != nil {
				return fmt.Errorf("listing imports: %w", err)
			}

			if len(batches) == 0 {
				fmt.Println("No imports found")
				fmt.Println()
				fmt.Println("💡 Import your first sheet export with:")
				fmt.Println("   repairtrack import jobs.csv")
				return nil
			}

			fmt.Println("Import History")
			fmt.Println(strongRule(78))
			fmt.Printf("%-4s  %-19s  %-9s  %8s  %-30s\n", "ID", "Date", "Status", "Rows", "File")
			fmt.Println(rule(78))

			for _, batch := range batches {
				statusIcon := "✅"
				switch batch.Status {
				case importer.StatusFailed:
					statusIcon = "❌"
				case importer.StatusPending:
					statusIcon = "⏳"
				case importer.StatusWarnings:
					statusIcon = "⚠️"
				}

				fmt.Printf("%-4d  %s  %s %-7s  %8d  %-30s\n",
					batch.ID,
					batch.ImportedAt.Format("2006-01-02 15:04:05"),
					statusIcon,
					batch.Status,
					batch.RowCount,
					truncate(batch.Filename, 30),
				)
				if batch.ErrorMessage.Valid {
					for _, note := range strings.Split(batch.ErrorMessage.String, "; ") {
						fmt.Printf("      %s\n", note)
					}
				}
			}
			fmt.Println(strongRule(78))
			fmt.Printf("Total: %d import(s)\n", len(batches))
			return nil
		},
	}

	cmd.Flags().Int32Var(&limit, "limit", 20, "number of imports to show")
	return cmd
}
