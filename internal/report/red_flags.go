package report

import (
	"sort"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

// FlagReason explains why a job needs a second look
type FlagReason string

const (
	FlagLoss           FlagReason = "loss"
	FlagProfitMismatch FlagReason = "profit-mismatch"
	FlagNoDate         FlagReason = "no-date"
	FlagBadDate        FlagReason = "unrecognised-date"
)

// RedFlag is a job with one or more data or profitability problems
type RedFlag struct {
	Job     jobs.Job     `json:"job"`
	Reasons []FlagReason `json:"reasons"`
}

// Has reports whether the flag carries reason
func (f RedFlag) Has(reason FlagReason) bool {
	for _, r := range f.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

// FindRedFlags returns loss-making jobs, jobs whose profit disagrees with
// price - parts cost, and jobs with a blank or unrecognised date. Biggest
// losses come first.
func FindRedFlags(list []jobs.Job) []RedFlag {
	flags := make([]RedFlag, 0)
	for _, j := range list {
		var reasons []FlagReason
		if j.Profit.IsNegative() {
			reasons = append(reasons, FlagLoss)
		}
		if j.ProfitMismatch() {
			reasons = append(reasons, FlagProfitMismatch)
		}
		switch d := parser.NormalizeDate(j.Date); {
		case d == "":
			reasons = append(reasons, FlagNoDate)
		case !parser.IsCanonicalDate(d):
			reasons = append(reasons, FlagBadDate)
		}
		if len(reasons) > 0 {
			flags = append(flags, RedFlag{Job: j, Reasons: reasons})
		}
	}

	sort.SliceStable(flags, func(a, b int) bool {
		return flags[a].Job.Profit.LessThan(flags[b].Job.Profit)
	})
	return flags
}
