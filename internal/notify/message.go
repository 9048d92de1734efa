package notify

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
	"github.com/datsun80zx/repairtrack/internal/report"
)

// DefaultMessageTemplate is sent when WHATSAPP_MESSAGE_TEMPLATE is unset
const DefaultMessageTemplate = `Hello {{.CustomerName}}, your {{.DeviceModel}} is ready.
Work done: {{.WorkDescription}}
Amount: ₹{{money .Price}}
Date: {{.Day}}
Thank you!`

type messageData struct {
	jobs.Job
	Day string
}

var messageFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return report.FormatMoney("", d) },
	"upper": strings.ToUpper,
}

// FormatJobMessage renders job into tmpl (text/template syntax). Fields of
// jobs.Job are available along with .Day, the display date, and the money
// and upper funcs. An empty tmpl uses DefaultMessageTemplate.
func FormatJobMessage(tmpl string, job jobs.Job) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultMessageTemplate
	}
	t, err := template.New("message").Funcs(messageFuncs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing message template: %w", err)
	}

	var b strings.Builder
	if err := t.Execute(&b, messageData{Job: job, Day: parser.DisplayDate(job.Date)}); err != nil {
		return "", fmt.Errorf("rendering message: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}
