package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/datsun80zx/repairtrack/internal/config"
	"github.com/datsun80zx/repairtrack/internal/importer"
	"github.com/datsun80zx/repairtrack/internal/store"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "import <jobs.csv>",
		Short:       "Import a CSV export of the job sheet into Postgres",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{sourceAnnotation: config.SourcePostgres},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return fmt.Errorf("jobs file not found: %s", path)
			}

			ctx := cmd.Context()
			database, err := store.Open(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			fmt.Println("Starting import...")
			fmt.Printf("  Jobs file: %s\n", path)
			fmt.Println()

			result, err := importer.NewImporter(database, a.log).ImportFile(ctx, path)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			if result.AlreadyImported {
				fmt.Println("ℹ️  This file has already been imported")
				fmt.Printf("   Batch ID: %d\n", result.BatchID)
				return nil
			}

			fmt.Println("✅ Import successful!")
			fmt.Println()
			fmt.Printf("Batch ID:       %d\n", result.BatchID)
			fmt.Printf("Jobs imported:  %d\n", result.JobsImported)
			fmt.Printf("Duration:       %v\n", result.Duration.Round(time.Millisecond))

			if result.ValidationResult != nil && len(result.ValidationResult.Warnings) > 0 {
				fmt.Println()
				fmt.Println("⚠️  Warnings:")
				for _, warning := range result.ValidationResult.Warnings {
					fmt.Printf("   - %s\n", warning)
				}
			}

			fmt.Println()
			fmt.Println("💡 Next steps:")
			fmt.Println("   repairtrack report monthly --source postgres     # Revenue and profit by month")
			fmt.Println("   repairtrack report red-flags --source postgres   # Jobs that need a second look")
			return nil
		},
	}
}
