// Package currencyutils provides amount and currency normalization used by
// fallback extraction and ledger deduplication.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	symbolRe = regexp.MustCompile(`[€$£¥￥₹₽₩฿\s]`)
	amountRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?`)
)

// currencyHints maps symbols and spoken keywords to ISO currency codes.
// Order matters: longer, more specific hints come first.
var currencyHints = []struct {
	hint string
	code string
}{
	{"人民币", "CNY"},
	{"美元", "USD"},
	{"美金", "USD"},
	{"欧元", "EUR"},
	{"英镑", "GBP"},
	{"日元", "JPY"},
	{"港币", "HKD"},
	{"块", "CNY"},
	{"元", "CNY"},
	{"¥", "CNY"},
	{"￥", "CNY"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"$", "USD"},
	{"USD", "USD"},
	{"EUR", "EUR"},
	{"CNY", "CNY"},
	{"CHF", "CHF"},
}

// ParseAmount parses a string representation of an amount into a decimal
// value. It tolerates currency symbols, thousands separators and both
// decimal-point conventions.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if amountStr == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount converts common currency string formats to a form
// decimal.NewFromString accepts, e.g. "¥1,234.56", "1.234,56", "1'234.56".
func StandardizeAmount(amountStr string) string {
	amountStr = symbolRe.ReplaceAllString(amountStr, "")

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) > 1 && len(parts[len(parts)-1]) <= 2 {
			// Comma used as decimal separator (1234,56)
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return strings.ReplaceAll(amountStr, "'", "")
}

// ExtractAmount scans free-form text for monetary amounts and returns the
// last match, with thousands separators removed. Recognition text tends to
// state the authoritative total last, so later matches win ties.
func ExtractAmount(text string) string {
	matches := amountRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.ReplaceAll(matches[len(matches)-1], ",", "")
}

// DetectCurrency returns the ISO code implied by a symbol or keyword in the
// text, or "" when no hint is present.
func DetectCurrency(text string) string {
	for _, entry := range currencyHints {
		if strings.Contains(text, entry.hint) {
			return entry.code
		}
	}
	return ""
}

// EqualAmounts reports whether two amount strings denote the same value.
// Used by the ledger dedup check so "35", "35.0" and "¥35.00" compare equal.
func EqualAmounts(a, b string) bool {
	da, errA := ParseAmount(a)
	db, errB := ParseAmount(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return da.Equal(db)
}
