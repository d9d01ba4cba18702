package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FallbackLabel is used by display layers when no order carried a currency.
const FallbackLabel = "EUR"

// Zero-decimal currencies per ISO 4217: no minor units (e.g. KRW, JPY)
var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true,
	"JPY": true, "KMF": true, "KRW": true, "MGA": true,
	"PYG": true, "RWF": true, "UGX": true, "VND": true,
	"VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// DecimalPlaces returns the number of decimal places for the currency.
func DecimalPlaces(c string) int32 {
	if zeroDecimalCurrencies[strings.ToUpper(c)] {
		return 0
	}
	return 2
}

// Round rounds amount half-up to the appropriate precision for the
// currency. Call only at the point of output; intermediate accumulation
// keeps full precision to avoid compounding rounding error.
func Round(amount decimal.Decimal, c string) decimal.Decimal {
	return amount.Round(DecimalPlaces(c))
}

// Label returns the code to display for a summary currency, substituting
// the fallback when no order carried one.
func Label(c string) string {
	if c == "" {
		return FallbackLabel
	}
	return strings.ToUpper(c)
}
