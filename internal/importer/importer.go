package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/datsun80zx/repairtrack/internal/config"
	"github.com/datsun80zx/repairtrack/internal/db"
	"github.com/datsun80zx/repairtrack/internal/parser"
	"github.com/datsun80zx/repairtrack/internal/store"
)

// Importer loads the shop sheet's CSV export into Postgres
type Importer struct {
	db      *sql.DB
	queries *db.Queries
	parser  parser.Parser
	log     logrus.FieldLogger
}

// NewImporter creates a new importer instance
func NewImporter(database *sql.DB, logger logrus.FieldLogger) *Importer {
	return &Importer{
		db:      database,
		queries: db.New(database),
		parser:  parser.NewCSVParser(),
		log:     logger,
	}
}

// ImportResult contains the results of an import operation
type ImportResult struct {
	BatchID          int64
	JobsImported     int
	ValidationResult *ValidationResult
	Duration         time.Duration
	AlreadyImported  bool
}

// ImportFile imports one CSV export of the job sheet. A file whose hash was
// already imported is skipped.
func (i *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	startTime := time.Now()

	// Step 1: Calculate file hash
	fileHash, err := CalculateFileHash(path)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate file hash: %w", err)
	}

	// Step 2: Check if already imported
	existingBatch, err := i.queries.GetImportBatchByHash(ctx, fileHash)
	if err == nil {
		return &ImportResult{
			BatchID:         existingBatch.ID,
			AlreadyImported: true,
			Duration:        time.Since(startTime),
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check for existing import: %w", err)
	}

	// Step 3: Parse file
	rows, err := i.parseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}
	validationResult := ValidateRows(rows)

	// Step 4: Start transaction
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	txQueries := i.queries.WithTx(tx)

	// Step 5: Create import batch
	batch, err := txQueries.CreateImportBatch(ctx, db.CreateImportBatchParams{
		Filename: filepath.Base(path),
		FileHash: fileHash,
		RowCount: int32(len(rows)),
		Status:   StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create import batch: %w", err)
	}

	// Step 6: Import jobs
	if err := importJobs(ctx, txQueries, rows, batch.ID); err != nil {
		config.LogError(i.log, "importer", "ImportFile", "importing jobs", map[string]any{"file": path, "batch": batch.ID}, err)
		return nil, fmt.Errorf("failed to import jobs: %w", err)
	}

	// Step 7: Mark batch as done, keeping any warnings
	status, message := validationResult.Outcome()
	err = txQueries.UpdateImportBatchStatus(ctx, db.UpdateImportBatchStatusParams{
		ID:           batch.ID,
		Status:       status,
		ErrorMessage: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update batch status: %w", err)
	}

	// Step 8: Commit transaction
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.log.WithFields(logrus.Fields{
		"batch":    batch.ID,
		"jobs":     len(rows),
		"warnings": len(validationResult.Warnings),
	}).Info("import finished")

	return &ImportResult{
		BatchID:          batch.ID,
		JobsImported:     len(rows),
		ValidationResult: validationResult,
		Duration:         time.Since(startTime),
	}, nil
}

// ListBatches returns the most recent imports, newest first
func (i *Importer) ListBatches(ctx context.Context, limit int32) ([]db.ImportBatch, error) {
	return i.queries.ListImportBatches(ctx, limit)
}

func (i *Importer) parseFile(path string) ([]parser.JobRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return i.parser.ParseJobs(file)
}

// importJobs inserts job records
func importJobs(ctx context.Context, q *db.Queries, rows []parser.JobRow, batchID int64) error {
	batch := sql.NullInt64{Int64: batchID, Valid: true}
	for _, row := range rows {
		params, err := store.InsertParams(row.Job(), batch)
		if err != nil {
			return fmt.Errorf("row %d: %w", row.RowNum, err)
		}
		if _, err := q.InsertJob(ctx, params); err != nil {
			return fmt.Errorf("failed to insert job (row %d): %w", row.RowNum, err)
		}
	}
	return nil
}
