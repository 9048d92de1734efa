package sheets

import (
	"github.com/datsun80zx/repairtrack/internal/jobs"
)

// record is the job shape the Apps Script expects on writes. Amounts are
// plain JSON numbers so the sheet stores them as numbers.
type record struct {
	Date         string  `json:"date"`
	CustomerName string  `json:"customerName"`
	Mobile       string  `json:"mobile"`
	TVModel      string  `json:"tvModel"`
	WorkDone     string  `json:"workDone"`
	Price        float64 `json:"price"`
	PartsCost    float64 `json:"partsCost"`
	Profit       float64 `json:"profit"`
}

func toRecord(j jobs.Job) *record {
	return &record{
		Date:         j.Date,
		CustomerName: j.CustomerName,
		Mobile:       j.Mobile,
		TVModel:      j.DeviceModel,
		WorkDone:     j.WorkDescription,
		Price:        j.Price.InexactFloat64(),
		PartsCost:    j.PartsCost.InexactFloat64(),
		Profit:       j.Profit.InexactFloat64(),
	}
}
