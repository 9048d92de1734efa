package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/datsun80zx/repairtrack/internal/report"
)

func rule(n int) string       { return strings.Repeat("─", n) }
func strongRule(n int) string { return strings.Repeat("═", n) }

// truncate shortens s to max runes with a trailing ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func (a *app) money(d decimal.Decimal) string {
	return report.FormatMoney(a.cfg.CurrencySymbol, d)
}

func percent(d decimal.Decimal) string {
	return report.FormatPercent(d)
}

// printRange echoes the --from/--to window being reported
func printRange(from, to string) {
	if from == "" && to == "" {
		return
	}
	or := func(s string) string {
		if s == "" {
			return "(all)"
		}
		return s
	}
	fmt.Fprintf(os.Stdout, "  Date range: %s to %s\n", or(from), or(to))
}
