package dashboard

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`\(?-?[\d,]*\.?\d+\)?`)

// ParseAmount reads the first number in a display value such as
// "2,43,865 Cr", "(1,234) Cr" or "7.4 %". Units are ignored. Values
// without a number, "N/A" included, report ok=false.
func ParseAmount(s string) (decimal.Decimal, bool) {
	m := amountPattern.FindString(s)
	if m == "" {
		return decimal.Zero, false
	}
	neg := strings.HasPrefix(m, "(") && strings.HasSuffix(m, ")")
	m = strings.Trim(m, "()")
	m = strings.ReplaceAll(m, ",", "")
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}
