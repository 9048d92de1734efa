package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/jobs"
)

var hundred = decimal.NewFromInt(100)

// PeriodStats holds summed job figures for one bucket (a day, week, month,
// year). Margin is profit as a percentage of revenue.
type PeriodStats struct {
	Period    string          `json:"period"`
	Jobs      int             `json:"jobs"`
	Revenue   decimal.Decimal `json:"revenue"`
	PartsCost decimal.Decimal `json:"partsCost"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"margin"`
}

// MonthlyRow is a month bucket keyed YYYY-MM
type MonthlyRow struct {
	PeriodStats
	DailyAverage decimal.Decimal `json:"dailyAverage"`
}

// YearlyRow is a year bucket keyed YYYY
type YearlyRow struct {
	PeriodStats
	MonthlyAverage decimal.Decimal `json:"monthlyAverage"`
}

// CategoryRow groups revenue by the brand word of the device model
type CategoryRow struct {
	Category     string          `json:"category"`
	Value        decimal.Decimal `json:"value"`
	Count        int             `json:"count"`
	AverageValue decimal.Decimal `json:"averageValue"`
}

func newPeriod(key string) PeriodStats {
	return PeriodStats{
		Period:    key,
		Revenue:   decimal.Zero,
		PartsCost: decimal.Zero,
		Profit:    decimal.Zero,
		Margin:    decimal.Zero,
	}
}

func (p *PeriodStats) add(j jobs.Job) {
	p.Jobs++
	p.Revenue = p.Revenue.Add(j.Price)
	p.PartsCost = p.PartsCost.Add(j.PartsCost)
	p.Profit = p.Profit.Add(j.Profit)
	p.Margin = Margin(p.Profit, p.Revenue)
}

// Margin returns profit / revenue * 100, or zero when there is no revenue
func Margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.GreaterThan(decimal.Zero) {
		return profit.Div(revenue).Mul(hundred)
	}
	return decimal.Zero
}
