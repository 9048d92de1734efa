package jobs

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by stores when a job id does not resolve to a job
var ErrNotFound = errors.New("job not found")

// Job is a single completed repair job as recorded in the shop's sheet.
// JSON names follow the sheet's column keys.
type Job struct {
	ID              string          `json:"id,omitempty"`
	Date            string          `json:"date" validate:"required"`
	CustomerName    string          `json:"customerName" validate:"required"`
	Mobile          string          `json:"mobile" validate:"required"`
	DeviceModel     string          `json:"tvModel" validate:"required"`
	WorkDescription string          `json:"workDone" validate:"required"`
	Price           decimal.Decimal `json:"price"`
	PartsCost       decimal.Decimal `json:"partsCost"`
	Profit          decimal.Decimal `json:"profit"`
}

// DerivedProfit returns price minus parts cost
func (j Job) DerivedProfit() decimal.Decimal {
	return j.Price.Sub(j.PartsCost)
}

// WithDerivedProfit returns a copy of the job with profit recomputed from
// price and parts cost
func (j Job) WithDerivedProfit() Job {
	j.Profit = j.DerivedProfit()
	return j
}

// ProfitMismatch reports whether the stored profit disagrees with
// price - partsCost
func (j Job) ProfitMismatch() bool {
	return !j.Profit.Equal(j.DerivedProfit())
}

var validate = validator.New()

// Validate checks the fields required when a job is entered by hand
func (j Job) Validate() error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}
	if j.Price.IsNegative() {
		return fmt.Errorf("invalid job: price must not be negative")
	}
	if j.PartsCost.IsNegative() {
		return fmt.Errorf("invalid job: parts cost must not be negative")
	}
	return nil
}
