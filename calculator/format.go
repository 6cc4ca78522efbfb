package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"SGD": "S$",
}

var westernPrinter = message.NewPrinter(language.English)

// CurrencySymbol returns the display prefix for code.
func CurrencySymbol(code string) string {
	if s, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return s
	}
	return strings.ToUpper(code) + " "
}

// ValidCurrency reports whether code is an ISO 4217 currency code.
func ValidCurrency(code string) bool {
	_, err := currency.ParseISO(code)
	return err == nil
}

// FormatAmount renders a whole amount with its currency symbol. INR uses
// Indian lakh/crore grouping (₹1,25,000); other currencies group by thousands.
func FormatAmount(amount decimal.Decimal, code string) string {
	n := amount.Round(0).IntPart()
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	var digits string
	if strings.EqualFold(code, "INR") {
		digits = groupIndian(n)
	} else {
		digits = westernPrinter.Sprintf("%d", n)
	}
	return sign + CurrencySymbol(code) + digits
}

// FormatRange renders "low - high" with the currency symbol on both ends.
func FormatRange(low, high decimal.Decimal, code string) string {
	return FormatAmount(low, code) + " - " + FormatAmount(high, code)
}

// groupIndian groups the last three digits, then every two: 12,34,56,789.
func groupIndian(n int64) string {
	s := decimal.NewFromInt(n).String()
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
