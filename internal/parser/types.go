package parser

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/jobs"
)

// JobRow represents a parsed row from the job sheet, before defaults are
// applied. Nil amounts were blank or unreadable in the source.
type JobRow struct {
	RowNum int

	// Raw date exactly as the sheet held it
	RawDate string
	Date    string

	// Customer
	CustomerName string
	Mobile       string

	// Work
	DeviceModel     string
	WorkDescription string

	// Money
	Price     *decimal.Decimal
	PartsCost *decimal.Decimal
	Profit    *decimal.Decimal
}

// Job converts the row to a job. Missing amounts count as zero; profit is
// derived only when the sheet did not supply one.
func (r JobRow) Job() jobs.Job {
	j := jobs.Job{
		Date:            r.Date,
		CustomerName:    r.CustomerName,
		Mobile:          r.Mobile,
		DeviceModel:     r.DeviceModel,
		WorkDescription: r.WorkDescription,
		Price:           decimalOrZero(r.Price),
		PartsCost:       decimalOrZero(r.PartsCost),
	}
	if r.Profit != nil {
		j.Profit = *r.Profit
	} else {
		j.Profit = j.DerivedProfit()
	}
	return j
}

// Jobs converts rows to jobs, assigning zero-based row indexes as ids
func Jobs(rows []JobRow) []jobs.Job {
	out := make([]jobs.Job, 0, len(rows))
	for i, r := range rows {
		j := r.Job()
		j.ID = strconv.Itoa(i)
		out = append(out, j)
	}
	return out
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
