package metrics

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

// PeriodTrend compares two periods as percentage changes
type PeriodTrend struct {
	Current      PeriodStats     `json:"current"`
	Previous     PeriodStats     `json:"previous"`
	RevenueTrend decimal.Decimal `json:"revenueTrend"`
	ProfitTrend  decimal.Decimal `json:"profitTrend"`
	JobsTrend    decimal.Decimal `json:"jobsTrend"`
}

// DashboardTotals are the headline cards of the dashboard
type DashboardTotals struct {
	TotalJobs      int             `json:"totalJobs"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalPartsCost decimal.Decimal `json:"totalPartsCost"`
	NetProfit      decimal.Decimal `json:"netProfit"`
	Margin         decimal.Decimal `json:"margin"`
}

// Trend returns the percentage change from previous to current. A zero
// baseline yields 100 when current is positive and 0 otherwise.
func Trend(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.GreaterThan(decimal.Zero) {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// Compare computes the revenue, profit and job count trends between two
// periods
func Compare(current, previous PeriodStats) PeriodTrend {
	return PeriodTrend{
		Current:      current,
		Previous:     previous,
		RevenueTrend: Trend(current.Revenue, previous.Revenue),
		ProfitTrend:  Trend(current.Profit, previous.Profit),
		JobsTrend:    Trend(decimal.NewFromInt(int64(current.Jobs)), decimal.NewFromInt(int64(previous.Jobs))),
	}
}

// MonthStats sums the jobs of one YYYY-MM month into a single bucket
func MonthStats(list []jobs.Job, monthKey string) PeriodStats {
	p := newPeriod(monthKey)
	for _, j := range list {
		d := parser.NormalizeDate(j.Date)
		if parser.IsCanonicalDate(d) && strings.HasPrefix(d, monthKey) {
			p.add(j)
		}
	}
	return p
}

// Totals sums every job regardless of date. Net profit is revenue minus
// parts cost.
func Totals(list []jobs.Job) DashboardTotals {
	t := DashboardTotals{
		TotalRevenue:   decimal.Zero,
		TotalPartsCost: decimal.Zero,
	}
	for _, j := range list {
		t.TotalJobs++
		t.TotalRevenue = t.TotalRevenue.Add(j.Price)
		t.TotalPartsCost = t.TotalPartsCost.Add(j.PartsCost)
	}
	t.NetProfit = t.TotalRevenue.Sub(t.TotalPartsCost)
	t.Margin = Margin(t.NetProfit, t.TotalRevenue)
	return t
}
