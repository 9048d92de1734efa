package metrics

import (
	"time"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// MaxDailyWindow bounds DailyStats to one (leap) year of buckets
const MaxDailyWindow = 366

// Engine computes the report views. Only the views anchored on "today"
// depend on its clock and location; everything else is a pure function of
// the job list.
type Engine struct {
	Now      func() time.Time
	Location *time.Location
}

// NewEngine returns an engine on the wall clock. A nil location means UTC.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{Now: time.Now, Location: loc}
}

// Clock returns the engine's current time
func (e *Engine) Clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Today returns the current calendar day in the engine's location, as
// midnight UTC so date arithmetic never crosses a zone transition
func (e *Engine) Today() time.Time {
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := e.Clock().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TodayKey is Today formatted YYYY-MM-DD
func (e *Engine) TodayKey() string {
	return e.Today().Format(dayLayout)
}

// CurrentMonthKey is the YYYY-MM key of the current month
func (e *Engine) CurrentMonthKey() string {
	return e.Today().Format(monthLayout)
}

// IsMonthKey reports whether s is a YYYY-MM key of a real month
func IsMonthKey(s string) bool {
	if len(s) != len(monthLayout) {
		return false
	}
	_, err := time.Parse(monthLayout, s)
	return err == nil
}

// PreviousMonthKey is the YYYY-MM key of the month before the current one
func (e *Engine) PreviousMonthKey() string {
	t := e.Today()
	return time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout)
}

// DailyStats returns one bucket per day for the trailing windowDays days
// ending today, oldest first. Every day in the window is present even when
// it has no jobs. Jobs dated outside the window are ignored. Windows longer
// than MaxDailyWindow are clamped to it.
func (e *Engine) DailyStats(list []jobs.Job, windowDays int) []PeriodStats {
	if windowDays <= 0 {
		return []PeriodStats{}
	}
	windowDays = min(windowDays, MaxDailyWindow)

	today := e.Today()
	out := make([]PeriodStats, windowDays)
	index := make(map[string]int, windowDays)
	for i := 0; i < windowDays; i++ {
		key := today.AddDate(0, 0, i-(windowDays-1)).Format(dayLayout)
		out[i] = newPeriod(key)
		index[key] = i
	}

	for _, j := range list {
		if i, ok := index[parser.NormalizeDate(j.Date)]; ok {
			out[i].add(j)
		}
	}
	return out
}

// TodayStats is the single bucket for today
func (e *Engine) TodayStats(list []jobs.Job) PeriodStats {
	return e.DailyStats(list, 1)[0]
}
