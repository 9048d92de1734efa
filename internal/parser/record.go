package parser

import (
	"strconv"
	"strings"

	"github.com/datsun80zx/repairtrack/internal/jobs"
)

// record keys used by the Apps Script endpoint and older clients
var recordKeys = map[string][]string{
	"id":            {"id", "tempId", "rowId"},
	"date":          {"date", "Date"},
	"customer name": {"customerName", "Customer Name", "CustomerName"},
	"mobile":        {"mobile", "Mobile"},
	"device model":  {"tvModel", "deviceModel", "TV Model", "TVModel"},
	"work done":     {"workDone", "workDescription", "Work Done", "WorkDone"},
	"price":         {"price", "Price"},
	"parts cost":    {"partsCost", "Parts Cost", "PartsCost"},
	"profit":        {"profit", "Profit"},
}

// RowFromRecord converts one JSON object returned by the sheet endpoint
func RowFromRecord(rec map[string]any, rowNum int) JobRow {
	row := JobRow{RowNum: rowNum}

	row.RawDate = stringValue(lookup(rec, "date"))
	row.Date = NormalizeDate(row.RawDate)

	row.CustomerName = stringValue(lookup(rec, "customer name"))
	row.Mobile = stringValue(lookup(rec, "mobile"))
	row.DeviceModel = stringValue(lookup(rec, "device model"))
	row.WorkDescription = stringValue(lookup(rec, "work done"))

	row.Price = parseAmount(lookup(rec, "price"))
	row.PartsCost = parseAmount(lookup(rec, "parts cost"))
	row.Profit = parseAmount(lookup(rec, "profit"))

	return row
}

// JobFromRecord converts one JSON object returned by the sheet endpoint
// into a job with a normalized date. index is used as the id when the
// record carries none.
func JobFromRecord(rec map[string]any, index int) jobs.Job {
	job := RowFromRecord(rec, index+2).Job()
	job.ID = stringValue(lookup(rec, "id"))
	if job.ID == "" {
		job.ID = strconv.Itoa(index)
	}
	return job
}

// JobsFromRecords converts a list of sheet records
func JobsFromRecords(recs []map[string]any) []jobs.Job {
	out := make([]jobs.Job, 0, len(recs))
	for i, rec := range recs {
		out = append(out, JobFromRecord(rec, i))
	}
	return out
}

// RecordsFromValues converts a values matrix (header row first), as the
// Sheets values API returns it, into records keyed like the endpoint's JSON
// objects. Rows with no values in the known columns are skipped.
func RecordsFromValues(values [][]any) []map[string]any {
	if len(values) == 0 {
		return []map[string]any{}
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = stringValue(h)
	}
	colMap := buildColumnMap(headers)

	out := make([]map[string]any, 0, len(values)-1)
	for _, raw := range values[1:] {
		rec := make(map[string]any, len(colMap))
		empty := true
		for field, idx := range colMap {
			if idx < len(raw) {
				rec[recordKeys[field][0]] = raw[idx]
				if strings.TrimSpace(stringValue(raw[idx])) != "" {
					empty = false
				}
			}
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out
}

func lookup(rec map[string]any, field string) any {
	for _, key := range recordKeys[field] {
		if v, ok := rec[key]; ok && v != nil {
			return v
		}
	}
	return nil
}
