package importer

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/datsun80zx/repairtrack/internal/parser"
)

// Batch statuses stored in import_batches.status
const (
	StatusPending  = "pending"
	StatusSuccess  = "success"
	StatusWarnings = "warnings"
	StatusFailed   = "failed"
)

// ValidationResult contains validation warnings found in an import
type ValidationResult struct {
	UnrecognisedDates []int
	BlankDates        []int
	ProfitMismatches  []int
	MissingPrices     []int
	Warnings          []string
}

// ValidateRows checks data quality of parsed rows. Problems never block the
// import; they are reported by sheet row number.
func ValidateRows(rows []parser.JobRow) *ValidationResult {
	result := &ValidationResult{
		UnrecognisedDates: make([]int, 0),
		BlankDates:        make([]int, 0),
		ProfitMismatches:  make([]int, 0),
		MissingPrices:     make([]int, 0),
		Warnings:          make([]string, 0),
	}

	for _, row := range rows {
		switch {
		case row.Date == "":
			result.BlankDates = append(result.BlankDates, row.RowNum)
		case !parser.IsCanonicalDate(row.Date):
			result.UnrecognisedDates = append(result.UnrecognisedDates, row.RowNum)
		}
		if row.Price == nil {
			result.MissingPrices = append(result.MissingPrices, row.RowNum)
		}
		if row.Profit != nil && row.Job().ProfitMismatch() {
			result.ProfitMismatches = append(result.ProfitMismatches, row.RowNum)
		}
	}

	if n := len(result.UnrecognisedDates); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d rows with unrecognised dates (rows %v)", n, result.UnrecognisedDates))
	}
	if n := len(result.BlankDates); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d rows without a date (rows %v)", n, result.BlankDates))
	}
	if n := len(result.MissingPrices); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d rows without a readable price (rows %v)", n, result.MissingPrices))
	}
	if n := len(result.ProfitMismatches); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d rows where profit is not price minus parts cost (rows %v)", n, result.ProfitMismatches))
	}

	return result
}

// Outcome is the final batch status and the message stored with it. An
// import with warnings still succeeds; the warnings are kept on the batch so
// the import history shows them.
func (v *ValidationResult) Outcome() (string, sql.NullString) {
	if v == nil || len(v.Warnings) == 0 {
		return StatusSuccess, sql.NullString{}
	}
	return StatusWarnings, sql.NullString{String: strings.Join(v.Warnings, "; "), Valid: true}
}
