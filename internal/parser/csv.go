package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

type CSVParser struct {
	TrimWhitespace bool
	SkipEmptyRows  bool
}

func NewCSVParser() *CSVParser {
	return &CSVParser{
		TrimWhitespace: true,
		SkipEmptyRows:  true,
	}
}

// column aliases seen in sheet exports, keyed by canonical field
var columnAliases = map[string][]string{
	"date":          {"date"},
	"customer name": {"customer name", "customername", "customer"},
	"mobile":        {"mobile", "phone", "mobile number"},
	"device model":  {"tv model", "tvmodel", "device model", "devicemodel", "model"},
	"work done":     {"work done", "workdone", "work description", "work"},
	"price":         {"price", "amount"},
	"parts cost":    {"parts cost", "partscost"},
	"profit":        {"profit"},
}

// ParseJobs reads a job sheet CSV export and returns parsed rows
func (p *CSVParser) ParseJobs(r io.Reader) ([]JobRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := records[0]
	colMap := buildColumnMap(headers)
	if _, ok := colMap["date"]; !ok {
		return nil, &ValidationError{Row: 1, Column: "Date", Value: strings.Join(headers, ","), Err: fmt.Errorf("required column is missing")}
	}

	rows := make([]JobRow, 0, len(records)-1)
	for i, record := range records[1:] {
		rowNum := i + 2

		if p.SkipEmptyRows && isEmptyRecord(record) {
			continue
		}

		rows = append(rows, p.parseJobRow(record, colMap, rowNum))
	}

	return rows, nil
}

// buildColumnMap maps canonical field names to column indexes,
// case-insensitively and across known aliases
func buildColumnMap(headers []string) map[string]int {
	byHeader := make(map[string]int)
	for i, header := range headers {
		normalized := strings.TrimPrefix(header, "\ufeff")
		normalized = strings.ToLower(strings.TrimSpace(strings.Trim(normalized, `"`)))
		if _, seen := byHeader[normalized]; !seen {
			byHeader[normalized] = i
		}
	}

	m := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := byHeader[alias]; ok {
				m[field] = idx
				break
			}
		}
	}
	return m
}

// parseJobRow converts a CSV row into a JobRow struct
func (p *CSVParser) parseJobRow(record []string, colMap map[string]int, rowNum int) JobRow {
	row := JobRow{RowNum: rowNum}

	row.RawDate = p.getField(record, colMap, "date")
	row.Date = NormalizeDate(row.RawDate)

	row.CustomerName = p.getField(record, colMap, "customer name")
	row.Mobile = p.getField(record, colMap, "mobile")
	row.DeviceModel = p.getField(record, colMap, "device model")
	row.WorkDescription = p.getField(record, colMap, "work done")

	// Amounts that fail to parse are left nil and count as zero later
	row.Price = parseNullableDecimal(p.getField(record, colMap, "price"))
	row.PartsCost = parseNullableDecimal(p.getField(record, colMap, "parts cost"))
	row.Profit = parseNullableDecimal(p.getField(record, colMap, "profit"))

	return row
}

// getField safely retrieves a field from a CSV row by canonical field name
func (p *CSVParser) getField(record []string, colMap map[string]int, field string) string {
	idx, ok := colMap[field]
	if !ok || idx >= len(record) {
		return ""
	}
	if p.TrimWhitespace {
		return strings.TrimSpace(record[idx])
	}
	return record[idx]
}

func isEmptyRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
