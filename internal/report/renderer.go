package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/parser"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultCurrency is used when the renderer is given no symbol
const DefaultCurrency = "₹"

// Renderer handles report template rendering
type Renderer struct {
	templates *template.Template
	currency  string
}

// NewRenderer creates a new template renderer that prints money with the
// given currency symbol
func NewRenderer(currency string) (*Renderer, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	r := &Renderer{currency: currency}

	funcMap := template.FuncMap{
		"formatMoney":   r.FormatMoney,
		"formatPercent": FormatPercent,
		"formatDate":    parser.DisplayDate,
		"truncate":      truncate,
		"isNegative":    func(d decimal.Decimal) bool { return d.IsNegative() },
		"add":           func(a, b int) int { return a + b },
		"join": func(reasons []FlagReason) string {
			parts := make([]string, len(reasons))
			for i, r := range reasons {
				parts[i] = string(r)
			}
			return strings.Join(parts, ", ")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.templates = tmpl

	return r, nil
}

// RenderSummary renders the summary report to HTML
func (r *Renderer) RenderSummary(w io.Writer, report *SummaryReport) error {
	return r.templates.ExecuteTemplate(w, "summary.html", report)
}

// FormatMoney formats an amount with the renderer's currency symbol,
// thousands separators and two decimals. Negative amounts are shown in
// parentheses.
func (r *Renderer) FormatMoney(amount decimal.Decimal) string {
	return FormatMoney(r.currency, amount)
}

// FormatMoney formats amount with symbol, e.g. ₹1,500.00 or (₹20.00)
func FormatMoney(symbol string, amount decimal.Decimal) string {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	intPart, decPart, _ := strings.Cut(fixed, ".")
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	formatted := fmt.Sprintf("%s%s.%s", symbol, strings.Join(groups, ","), decPart)

	if negative {
		return "(" + formatted + ")"
	}
	return formatted
}

// FormatPercent formats a percentage with one decimal
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// truncate shortens a string with ellipsis
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
