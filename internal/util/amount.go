package util

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reCurrency       = regexp.MustCompile(`(?i)\b(ksh|kes)\.?|/=|/-`)
	reCommaThousands = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
	reAmount         = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

var ErrNotAmount = errors.New("not a numeric amount")

// ParseAmount reads a Ksh amount typed by a person: "5500", "Ksh 5,500",
// "12 000/=", "7500.50". A decimal comma is accepted when no dot is present.
func ParseAmount(input string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(input, "\u00A0", " ")
	s = reCurrency.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrNotAmount
	}

	s = normalizeNumericToken(s)
	if !reAmount.MatchString(s) {
		return decimal.Zero, ErrNotAmount
	}
	return decimal.NewFromString(s)
}

func normalizeNumericToken(token string) string {
	if reCommaThousands.MatchString(token) {
		return strings.ReplaceAll(token, ",", "")
	}
	if strings.Contains(token, ",") && !strings.Contains(token, ".") {
		return strings.ReplaceAll(token, ",", ".")
	}
	return token
}
