package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a format name; empty means csv
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Preset is a canned export
type Preset string

const (
	PresetAll       Preset = "all"
	PresetThisMonth Preset = "this-month"
	PresetCustomers Preset = "customers"
)

// ParsePreset validates a preset name; empty means no preset
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PresetAll, PresetThisMonth, PresetCustomers:
		return p, nil
	default:
		return "", fmt.Errorf("unknown export preset %q", s)
	}
}

type column struct {
	key   string
	title string
	value func(jobs.Job) any
}

var columns = []column{
	{"date", "Date", func(j jobs.Job) any { return parser.DisplayDate(j.Date) }},
	{"customerName", "Customer Name", func(j jobs.Job) any { return j.CustomerName }},
	{"mobile", "Mobile", func(j jobs.Job) any { return j.Mobile }},
	{"tvModel", "TV Model", func(j jobs.Job) any { return j.DeviceModel }},
	{"workDone", "Work Done", func(j jobs.Job) any { return j.WorkDescription }},
	{"price", "Price", func(j jobs.Job) any { return j.Price }},
	{"partsCost", "Parts Cost", func(j jobs.Job) any { return j.PartsCost }},
	{"profit", "Profit", func(j jobs.Job) any { return j.Profit }},
}

var customerColumns = []string{"customerName", "mobile", "date"}

// DefaultColumns is every column except parts cost
func DefaultColumns() []string {
	keys := make([]string, 0, len(columns)-1)
	for _, c := range columns {
		if c.key != "partsCost" {
			keys = append(keys, c.key)
		}
	}
	return keys
}

// AllColumns lists every column key in export order
func AllColumns() []string {
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = c.key
	}
	return keys
}

// ParseColumns reads a comma separated column list. Empty selects
// DefaultColumns.
func ParseColumns(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultColumns(), nil
	}
	var keys []string
	for _, part := range strings.Split(s, ",") {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		if _, ok := lookupColumn(key); !ok {
			return nil, fmt.Errorf("unknown export column %q", key)
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return DefaultColumns(), nil
	}
	return keys, nil
}

func lookupColumn(key string) (column, bool) {
	for _, c := range columns {
		if strings.EqualFold(c.key, key) {
			return c, true
		}
	}
	return column{}, false
}

// Options selects what an export contains
type Options struct {
	Format  Format
	From    string
	To      string
	Columns []string
	Preset  Preset

	// Today anchors the this-month preset
	Today time.Time
}

// Select applies the preset and the inclusive date range to list
func Select(list []jobs.Job, opts Options) []jobs.Job {
	switch opts.Preset {
	case PresetThisMonth:
		list = jobs.FilterByPeriod(list, jobs.PeriodThisMonth, opts.Today)
	case PresetCustomers:
		list = uniqueCustomers(list)
	}
	return jobs.InRange(list, opts.From, opts.To)
}

// uniqueCustomers keeps the most recent job per customer, keyed by mobile
// (or by name when the mobile is blank)
func uniqueCustomers(list []jobs.Job) []jobs.Job {
	seen := make(map[string]bool)
	out := make([]jobs.Job, 0, len(list))
	for _, j := range jobs.SortByDateDesc(list) {
		key := strings.TrimSpace(j.Mobile)
		if key == "" {
			key = "name:" + strings.ToLower(strings.TrimSpace(j.CustomerName))
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, j)
	}
	return out
}

// table is the format-independent shape every writer renders
type table struct {
	title   string
	headers []string
	rows    [][]any
}

func jobTable(list []jobs.Job, opts Options) (table, error) {
	keys := opts.Columns
	if opts.Preset == PresetCustomers {
		keys = customerColumns
	}
	if len(keys) == 0 {
		keys = DefaultColumns()
	}

	cols := make([]column, 0, len(keys))
	for _, key := range keys {
		c, ok := lookupColumn(key)
		if !ok {
			return table{}, fmt.Errorf("unknown export column %q", key)
		}
		cols = append(cols, c)
	}

	t := table{title: "Repair Jobs", headers: make([]string, len(cols))}
	if opts.Preset == PresetCustomers {
		t.title = "Customers"
	}
	for i, c := range cols {
		t.headers[i] = c.title
	}
	for _, j := range Select(list, opts) {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = c.value(j)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// Write exports the jobs selected by opts to w
func Write(w io.Writer, list []jobs.Job, opts Options) error {
	t, err := jobTable(list, opts)
	if err != nil {
		return err
	}
	return write(w, opts.Format, t)
}

func write(w io.Writer, format Format, t table) error {
	switch format {
	case FormatCSV, "":
		return writeCSV(w, t)
	case FormatXLSX:
		return writeXLSX(w, t)
	case FormatPDF:
		return writePDF(w, t)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// FileName returns repair-jobs-YYYY-MM-DD.<ext> for the given day
func FileName(format Format, day time.Time) string {
	if format == "" {
		format = FormatCSV
	}
	return fmt.Sprintf("repair-jobs-%s.%s", day.Format("2006-01-02"), format)
}

// cellText renders a cell for the text formats
func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case decimal.Decimal:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}
