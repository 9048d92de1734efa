package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

// OtherCategory collects jobs with no device model
const OtherCategory = "Other"

var twelve = decimal.NewFromInt(12)

// MonthlyStats groups jobs by YYYY-MM, ascending. A date that cannot be
// normalized forms its own bucket under the raw value so the anomaly shows
// up in the report; its daily average is zero. Undated jobs are skipped.
func MonthlyStats(list []jobs.Job) []MonthlyRow {
	groups := make(map[string]*PeriodStats)
	for _, j := range list {
		key, ok := bucketKey(j.Date, len(monthLayout))
		if !ok {
			continue
		}
		addTo(groups, key, j)
	}

	out := make([]MonthlyRow, 0, len(groups))
	for _, key := range sortedKeys(groups) {
		p := *groups[key]
		m := MonthlyRow{PeriodStats: p, DailyAverage: decimal.Zero}
		if days := daysInMonth(key); days > 0 {
			m.DailyAverage = p.Revenue.Div(decimal.NewFromInt(int64(days)))
		}
		out = append(out, m)
	}
	return out
}

// YearlyStats groups jobs by YYYY, ascending. MonthlyAverage is revenue / 12
// regardless of how many months had jobs.
func YearlyStats(list []jobs.Job) []YearlyRow {
	groups := make(map[string]*PeriodStats)
	for _, j := range list {
		key, ok := bucketKey(j.Date, 4)
		if !ok {
			continue
		}
		addTo(groups, key, j)
	}

	out := make([]YearlyRow, 0, len(groups))
	for _, key := range sortedKeys(groups) {
		p := *groups[key]
		out = append(out, YearlyRow{PeriodStats: p, MonthlyAverage: p.Revenue.Div(twelve)})
	}
	return out
}

// CategoryStats groups revenue by the first word of the device model,
// highest value first. Ties are ordered by name.
func CategoryStats(list []jobs.Job) []CategoryRow {
	groups := make(map[string]*CategoryRow)
	for _, j := range list {
		name := Category(j.DeviceModel)
		c, ok := groups[name]
		if !ok {
			c = &CategoryRow{Category: name, Value: decimal.Zero}
			groups[name] = c
		}
		c.Count++
		c.Value = c.Value.Add(j.Price)
	}

	out := make([]CategoryRow, 0, len(groups))
	for _, c := range groups {
		c.AverageValue = c.Value.Div(decimal.NewFromInt(int64(c.Count)))
		out = append(out, *c)
	}
	sort.Slice(out, func(a, b int) bool {
		if cmp := out[a].Value.Cmp(out[b].Value); cmp != 0 {
			return cmp > 0
		}
		return out[a].Category < out[b].Category
	})
	return out
}

// Category returns the brand word of a device model, or OtherCategory
func Category(deviceModel string) string {
	fields := strings.Fields(deviceModel)
	if len(fields) == 0 {
		return OtherCategory
	}
	return fields[0]
}

// WeeklyStats buckets the jobs of one month (monthKey is YYYY-MM) into
// "Week N" where N = ceil(day/7). Margins are rounded to whole percent.
func WeeklyStats(list []jobs.Job, monthKey string) []PeriodStats {
	byWeek := make(map[int]*PeriodStats)
	for _, j := range list {
		d := parser.NormalizeDate(j.Date)
		if !parser.IsCanonicalDate(d) || !strings.HasPrefix(d, monthKey) {
			continue
		}
		t, _ := time.Parse(dayLayout, d)
		week := (t.Day() + 6) / 7
		p, ok := byWeek[week]
		if !ok {
			np := newPeriod(fmt.Sprintf("Week %d", week))
			p = &np
			byWeek[week] = p
		}
		p.add(j)
	}

	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	out := make([]PeriodStats, 0, len(weeks))
	for _, w := range weeks {
		p := *byWeek[w]
		p.Margin = p.Margin.Round(0)
		out = append(out, p)
	}
	return out
}

// bucketKey returns the first n characters of a canonical date, or the
// normalized value itself for dates that could not be normalized
func bucketKey(raw string, n int) (string, bool) {
	d := parser.NormalizeDate(raw)
	if d == "" {
		return "", false
	}
	if parser.IsCanonicalDate(d) {
		return d[:n], true
	}
	return d, true
}

func addTo(groups map[string]*PeriodStats, key string, j jobs.Job) {
	p, ok := groups[key]
	if !ok {
		np := newPeriod(key)
		p = &np
		groups[key] = p
	}
	p.add(j)
}

func sortedKeys(groups map[string]*PeriodStats) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// daysInMonth returns 28-31 for a YYYY-MM key and 0 for anything else
func daysInMonth(key string) int {
	t, err := time.Parse(monthLayout, key)
	if err != nil {
		return 0
	}
	return t.AddDate(0, 1, -1).Day()
}
