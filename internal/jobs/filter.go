package jobs

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Period names accepted by FilterByPeriod
type Period string

const (
	PeriodAll       Period = "all"
	PeriodToday     Period = "today"
	PeriodThisWeek  Period = "this-week"
	PeriodThisMonth Period = "this-month"
	PeriodLastMonth Period = "last-month"
)

// ParsePeriod validates a period name; empty means all
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodThisWeek, PeriodThisMonth, PeriodLastMonth:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Search keeps jobs whose customer name or device model contains query
// (case-insensitive) or whose mobile contains it verbatim
func Search(list []Job, query string) []Job {
	query = strings.TrimSpace(query)
	if query == "" {
		return clone(list)
	}
	q := strings.ToLower(query)
	out := make([]Job, 0, len(list))
	for _, j := range list {
		if strings.Contains(strings.ToLower(j.CustomerName), q) ||
			strings.Contains(j.Mobile, query) ||
			strings.Contains(strings.ToLower(j.DeviceModel), q) {
			out = append(out, j)
		}
	}
	return out
}

// FilterByPeriod keeps jobs dated inside period relative to today. Jobs
// without a canonical date only survive PeriodAll.
func FilterByPeriod(list []Job, period Period, today time.Time) []Job {
	if period == PeriodAll || period == "" {
		return clone(list)
	}
	todayKey := today.Format(dayLayout)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var keep func(d string) bool
	switch period {
	case PeriodToday:
		keep = func(d string) bool { return d == todayKey }
	case PeriodThisWeek:
		from := time.Date(today.Year(), today.Month(), today.Day()-6, 0, 0, 0, 0, time.UTC).Format(dayLayout)
		keep = func(d string) bool { return d >= from && d <= todayKey }
	case PeriodThisMonth:
		prefix := firstOfMonth.Format("2006-01")
		keep = func(d string) bool { return strings.HasPrefix(d, prefix) }
	case PeriodLastMonth:
		prefix := firstOfMonth.AddDate(0, -1, 0).Format("2006-01")
		keep = func(d string) bool { return strings.HasPrefix(d, prefix) }
	default:
		return []Job{}
	}

	out := make([]Job, 0, len(list))
	for _, j := range list {
		if isDay(j.Date) && keep(j.Date) {
			out = append(out, j)
		}
	}
	return out
}

// InRange keeps jobs dated between from and to inclusive. Either bound may
// be empty to leave that side open.
func InRange(list []Job, from, to string) []Job {
	if from == "" && to == "" {
		return clone(list)
	}
	out := make([]Job, 0, len(list))
	for _, j := range list {
		if !isDay(j.Date) {
			continue
		}
		if from != "" && j.Date < from {
			continue
		}
		if to != "" && j.Date > to {
			continue
		}
		out = append(out, j)
	}
	return out
}

// SortByDateDesc returns a copy ordered newest first; undated jobs go last
func SortByDateDesc(list []Job) []Job {
	out := clone(list)
	sort.SliceStable(out, func(a, b int) bool {
		da, db := out[a].Date, out[b].Date
		if isDay(da) != isDay(db) {
			return isDay(da)
		}
		return da > db
	})
	return out
}

// Recent returns the n newest jobs
func Recent(list []Job, n int) []Job {
	sorted := SortByDateDesc(list)
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func isDay(d string) bool {
	if len(d) != len(dayLayout) {
		return false
	}
	_, err := time.Parse(dayLayout, d)
	return err == nil
}

func clone(list []Job) []Job {
	out := make([]Job, len(list))
	copy(out, list)
	return out
}
