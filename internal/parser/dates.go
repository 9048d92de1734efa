package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NoDate is shown wherever a job has no date at all
const NoDate = "N/A"

const canonicalLayout = "2006-01-02"

var (
	isoDate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateTime = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})T`)
	dmyDash     = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	dmySlash    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	serialDate  = regexp.MustCompile(`^(\d+)(\.\d+)?$`)

	// spreadsheet day zero
	serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

	// JavaScript Date.toString appends the zone name in parentheses
	zoneName = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// layouts tried when no explicit pattern matches
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
}

// NormalizeDate maps any date value seen in the shop's sheet to a canonical
// YYYY-MM-DD calendar day. Blank input yields "". Values that match no known
// form are returned unchanged. The result never depends on time.Local.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if isoDate.MatchString(s) {
		return s
	}

	if m := dmyDash.FindStringSubmatch(s); m != nil {
		return joinDay(m[3], m[2], m[1])
	}

	if m := dmySlash.FindStringSubmatch(s); m != nil {
		return joinDay(m[3], m[2], m[1])
	}

	if m := serialDate.FindStringSubmatch(s); m != nil {
		if days, err := strconv.Atoi(m[1]); err == nil {
			return serialEpoch.AddDate(0, 0, days).Format(canonicalLayout)
		}
	}

	// the date part of an ISO timestamp is already the calendar day;
	// re-parsing it through a zone would move it across midnight
	if m := isoDateTime.FindStringSubmatch(s); m != nil {
		return joinDay(m[1], m[2], m[3])
	}

	cleaned := zoneName.ReplaceAllString(s, "")
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.UTC().Format(canonicalLayout)
		}
	}

	return raw
}

// DisplayDate is NormalizeDate for display contexts: blank becomes NoDate
func DisplayDate(raw string) string {
	if d := NormalizeDate(raw); d != "" {
		return d
	}
	return NoDate
}

// IsCanonicalDate reports whether d is a real calendar day in YYYY-MM-DD form
func IsCanonicalDate(d string) bool {
	if !isoDate.MatchString(d) {
		return false
	}
	_, err := time.Parse(canonicalLayout, d)
	return err == nil
}

// ParseDay parses a YYYY-MM-DD flag value (any accepted input form is
// normalized first)
func ParseDay(s string) (time.Time, error) {
	d := NormalizeDate(s)
	t, err := time.Parse(canonicalLayout, d)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

func joinDay(year, month, day string) string {
	return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
