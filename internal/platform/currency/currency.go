// Package currency formats prices for display.
package currency

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD formats v as US dollars with thousands separators and two decimals,
// e.g. 1234.5 becomes "$1,234.50". The sign follows the dollar sign, so -5
// becomes "$-5.00". Cents are rounded half away from zero. NaN and
// infinities format as "$0.00".
func USD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	return USDDecimal(decimal.NewFromFloat(v))
}

// USDDecimal formats an exact decimal amount as US dollars.
func USDDecimal(d decimal.Decimal) string {
	cents := d.Round(2).Shift(2).IntPart()
	if cents >= 0 {
		return money.New(cents, money.USD).Display()
	}

	return "$-" + strings.TrimPrefix(money.New(-cents, money.USD).Display(), "$")
}
