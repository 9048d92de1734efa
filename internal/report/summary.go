package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/metrics"
)

const (
	dailyWindow = 30
	recentJobs  = 5
)

// SummaryReport contains all data for the summary report
type SummaryReport struct {
	GeneratedAt time.Time `json:"generatedAt"`
	FromDate    string    `json:"fromDate,omitempty"`
	ToDate      string    `json:"toDate,omitempty"`

	// Executive Summary
	Totals       metrics.DashboardTotals `json:"totals"`
	Today        metrics.PeriodStats     `json:"today"`
	Month        metrics.PeriodTrend     `json:"month"`
	JobsWithLoss int                     `json:"jobsWithLoss"`
	TotalLoss    decimal.Decimal         `json:"totalLoss"`

	// Breakdowns
	Daily      []metrics.PeriodStats `json:"daily"`
	Weekly     []metrics.PeriodStats `json:"weekly"`
	Monthly    []metrics.MonthlyRow  `json:"monthly"`
	Yearly     []metrics.YearlyRow   `json:"yearly"`
	Categories []metrics.CategoryRow `json:"categories"`
	RecentJobs []jobs.Job            `json:"recentJobs"`
	RedFlags   []RedFlag             `json:"redFlags"`
}

// GenerateSummary builds the complete summary report. from and to are
// optional YYYY-MM-DD bounds; when either is set, undated jobs are left out.
func GenerateSummary(engine *metrics.Engine, list []jobs.Job, from, to string) *SummaryReport {
	list = jobs.InRange(list, from, to)

	current := metrics.MonthStats(list, engine.CurrentMonthKey())
	previous := metrics.MonthStats(list, engine.PreviousMonthKey())

	report := &SummaryReport{
		GeneratedAt: engine.Clock(),
		FromDate:    from,
		ToDate:      to,
		Totals:      metrics.Totals(list),
		Today:       engine.TodayStats(list),
		Month:       metrics.Compare(current, previous),
		TotalLoss:   decimal.Zero,
		Daily:       engine.DailyStats(list, dailyWindow),
		Weekly:      metrics.WeeklyStats(list, engine.CurrentMonthKey()),
		Monthly:     metrics.MonthlyStats(list),
		Yearly:      metrics.YearlyStats(list),
		Categories:  metrics.CategoryStats(list),
		RecentJobs:  jobs.Recent(list, recentJobs),
		RedFlags:    FindRedFlags(list),
	}

	for _, j := range list {
		if j.Profit.IsNegative() {
			report.JobsWithLoss++
			report.TotalLoss = report.TotalLoss.Add(j.Profit)
		}
	}

	return report
}
