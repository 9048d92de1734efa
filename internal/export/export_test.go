package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/metrics"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

func job(date, name, mobile, model string, price, parts int64) jobs.Job {
	return jobs.Job{
		Date:            date,
		CustomerName:    name,
		Mobile:          mobile,
		DeviceModel:     model,
		WorkDescription: "Repair",
		Price:           decimal.NewFromInt(price),
		PartsCost:       decimal.NewFromInt(parts),
		Profit:          decimal.NewFromInt(price - parts),
	}
}

func sample() []jobs.Job {
	return []jobs.Job{
		job("2024-02-10", "Ravi", "9876543210", "Samsung 55", 500, 300),
		job("2024-03-05", "Asha", "9123456780", "LG 43", 400, 0),
		job("2024-03-12", "Ravi", "9876543210", "Sony", 800, 200),
		job("", "Undated", "9000000000", "Onida", 100, 0),
	}
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestParseOptions(t *testing.T) {
	t.Run("Should default to csv and accept excel as xlsx", func(t *testing.T) {
		f, err := ParseFormat("")
		require.NoError(t, err)
		assert.Equal(t, FormatCSV, f)

		f, err = ParseFormat("Excel")
		require.NoError(t, err)
		assert.Equal(t, FormatXLSX, f)

		_, err = ParseFormat("docx")
		assert.Error(t, err)
	})

	t.Run("Should leave parts cost out of the default columns", func(t *testing.T) {
		cols, err := ParseColumns("")
		require.NoError(t, err)
		assert.NotContains(t, cols, "partsCost")
		assert.Len(t, cols, len(AllColumns())-1)
	})

	t.Run("Should reject unknown columns", func(t *testing.T) {
		_, err := ParseColumns("date,colour")
		assert.Error(t, err)

		cols, err := ParseColumns(" date , price ,")
		require.NoError(t, err)
		assert.Equal(t, []string{"date", "price"}, cols)
	})

	t.Run("Should validate presets", func(t *testing.T) {
		p, err := ParsePreset("This-Month")
		require.NoError(t, err)
		assert.Equal(t, PresetThisMonth, p)

		_, err = ParsePreset("yesterday")
		assert.Error(t, err)
	})
}

func TestSelect(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Should filter by inclusive date range", func(t *testing.T) {
		got := Select(sample(), Options{From: "2024-03-05", To: "2024-03-12"})
		require.Len(t, got, 2)
		assert.Equal(t, "Asha", got[0].CustomerName)
		assert.Equal(t, "2024-03-12", got[1].Date)
	})

	t.Run("Should keep every job without a range or preset", func(t *testing.T) {
		assert.Len(t, Select(sample(), Options{}), 4)
	})

	t.Run("Should keep only this month for the this-month preset", func(t *testing.T) {
		got := Select(sample(), Options{Preset: PresetThisMonth, Today: today})
		assert.Len(t, got, 2)
	})

	t.Run("Should keep the latest job per mobile for the customers preset", func(t *testing.T) {
		got := Select(sample(), Options{Preset: PresetCustomers})
		require.Len(t, got, 3)
		assert.Equal(t, "2024-03-12", got[0].Date)
		assert.Equal(t, "Sony", got[0].DeviceModel)
	})
}

func TestWrite(t *testing.T) {
	t.Run("Should write the selected csv columns", func(t *testing.T) {
		var buf bytes.Buffer
		err := Write(&buf, sample(), Options{Format: FormatCSV, Columns: []string{"date", "customerName", "price"}, From: "2024-03-01"})
		require.NoError(t, err)

		rows := readCSV(t, buf.Bytes())
		assert.Equal(t, [][]string{
			{"Date", "Customer Name", "Price"},
			{"2024-03-05", "Asha", "400"},
			{"2024-03-12", "Ravi", "800"},
		}, rows)
	})

	t.Run("Should use default columns when none are given", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sample(), Options{}))

		rows := readCSV(t, buf.Bytes())
		assert.NotContains(t, rows[0], "Parts Cost")
		assert.Len(t, rows, 5)
	})

	t.Run("Should show undated jobs as N/A", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sample(), Options{Columns: []string{"customerName", "date"}}))

		rows := readCSV(t, buf.Bytes())
		assert.Contains(t, rows, []string{"Undated", parser.NoDate})
		assert.Contains(t, rows, []string{"Asha", "2024-03-05"})
	})

	t.Run("Should quote commas in csv cells", func(t *testing.T) {
		list := []jobs.Job{job("2024-03-01", "Khan, Imran", "1", "LG", 1, 0)}
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, list, Options{Columns: []string{"customerName"}}))
		assert.Contains(t, buf.String(), `"Khan, Imran"`)
	})

	t.Run("Should write every row to xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sample(), Options{Format: FormatXLSX, Columns: AllColumns()}))

		f, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Repair Jobs")
		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Equal(t, "Parts Cost", rows[0][6])
		assert.Equal(t, "Ravi", rows[1][1])
		assert.Equal(t, "500", rows[1][5])
	})

	t.Run("Should write a pdf document", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sample(), Options{Format: FormatPDF}))
		assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	})

	t.Run("Should fail on an unknown column", func(t *testing.T) {
		var buf bytes.Buffer
		err := Write(&buf, sample(), Options{Columns: []string{"colour"}})
		assert.Error(t, err)
	})

	t.Run("Should write customers with their own columns", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sample(), Options{Preset: PresetCustomers, Columns: AllColumns()}))

		rows := readCSV(t, buf.Bytes())
		assert.Equal(t, []string{"Customer Name", "Mobile", "Date"}, rows[0])
		assert.Len(t, rows, 4)
	})
}

func TestWriteSummary(t *testing.T) {
	t.Run("Should write one row per month", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, FormatCSV, metrics.MonthlyStats(sample())))

		rows := readCSV(t, buf.Bytes())
		require.Len(t, rows, 3)
		assert.Equal(t, summaryHeaders, rows[0])
		assert.Equal(t, []string{"2024-02", "1", "500", "300", "200", "40", "17.24"}, rows[1])
		assert.Equal(t, "2024-03", rows[2][0])
		assert.Equal(t, "2", rows[2][1])
	})
}

func TestFileName(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Should name files after the day", func(t *testing.T) {
		assert.Equal(t, "repair-jobs-2024-03-15.xlsx", FileName(FormatXLSX, day))
		assert.Equal(t, "repair-jobs-2024-03-15.csv", FileName("", day))
		assert.Equal(t, "repair-summary-2024-03.pdf", SummaryFileName(FormatPDF, "2024-03"))
	})
}
