package export

import (
	"io"

	"github.com/datsun80zx/repairtrack/internal/metrics"
)

var summaryHeaders = []string{"Month", "Jobs", "Revenue", "Parts Cost", "Profit", "Margin %", "Daily Average"}

// WriteSummary exports monthly aggregates, one row per month
func WriteSummary(w io.Writer, format Format, monthly []metrics.MonthlyRow) error {
	t := table{title: "Monthly Summary", headers: summaryHeaders}
	for _, m := range monthly {
		t.rows = append(t.rows, []any{
			m.Period,
			m.Jobs,
			m.Revenue,
			m.PartsCost,
			m.Profit,
			m.Margin.Round(1),
			m.DailyAverage.Round(2),
		})
	}
	return write(w, format, t)
}

// SummaryFileName names a summary export after the month it was taken in
func SummaryFileName(format Format, monthKey string) string {
	if format == "" {
		format = FormatCSV
	}
	return "repair-summary-" + monthKey + "." + string(format)
}
