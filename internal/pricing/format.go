package pricing

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount in whole dollars with thousands separators.
func FormatMoney(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// PeriodLabel is the suffix shown next to a total.
func (c Cycle) PeriodLabel() string {
	if c == Annual {
		return "/year"
	}
	return "/month"
}
