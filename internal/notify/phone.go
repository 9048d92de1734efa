package notify

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion is used for numbers written without a country code
const DefaultRegion = "IN"

// NormalizePhone returns raw as international digits without a leading +,
// the form the Cloud API expects. Local numbers are read in region, so a
// ten digit Indian mobile gains the 91 country code.
func NormalizePhone(raw, region string) (string, error) {
	if region == "" {
		region = DefaultRegion
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return "", fmt.Errorf("phone number %q has no digits", raw)
	}

	input := digits
	switch {
	case strings.HasPrefix(digits, "00"):
		input = "+" + digits[2:]
	case strings.HasPrefix(strings.TrimSpace(raw), "+"):
		input = "+" + digits
	case len(digits) > 10 && !strings.HasPrefix(digits, "0"):
		input = "+" + digits
	}

	num, err := libphonenumber.Parse(input, strings.ToUpper(region))
	if err != nil {
		return "", fmt.Errorf("parsing phone number %q: %w", raw, err)
	}
	if !libphonenumber.IsPossibleNumber(num) {
		return "", fmt.Errorf("phone number %q is not a possible number", raw)
	}

	return strings.TrimPrefix(libphonenumber.Format(num, libphonenumber.E164), "+"), nil
}
