package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// parseNullableDecimal parses optional money fields. Blank or unreadable
// values yield nil.
func parseNullableDecimal(s string) *decimal.Decimal {
	s = cleanCurrency(s)
	if s == "" {
		return nil
	}

	val, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}

	return &val
}

// cleanCurrency removes currency symbols and grouping commas.
// Also handles accounting notation: (123.45) → -123.45
func cleanCurrency(s string) string {
	s = strings.TrimSpace(s)

	// Handle accounting notation for negative numbers: (5517.95) means -5517.95
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimPrefix(s, "(")
		s = strings.TrimSuffix(s, ")")
		s = strings.TrimSpace(s)
	}

	// Remove currency symbols and formatting
	for _, sym := range []string{"₹", "$", "INR", "Rs.", "Rs", "rs.", "rs"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Add negative sign if needed
	if isNegative && s != "" && s != "0" && s != "0.00" {
		s = "-" + s
	}

	return s
}

// parseAmount reads a money value decoded from JSON. Absent, null and
// non-numeric values yield nil.
func parseAmount(v any) *decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		d := decimal.NewFromFloat(n)
		return &d
	case float32:
		return parseAmount(float64(n))
	case int:
		d := decimal.NewFromInt(int64(n))
		return &d
	case int64:
		d := decimal.NewFromInt(n)
		return &d
	case json.Number:
		return parseNullableDecimal(n.String())
	case decimal.Decimal:
		return &n
	case string:
		return parseNullableDecimal(n)
	default:
		return nil
	}
}

// stringValue renders a JSON-decoded cell as text. Whole numbers are printed
// without a fraction so serial dates and phone numbers survive.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}
