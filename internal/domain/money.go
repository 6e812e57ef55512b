package domain

import (
	"fmt"
	"math"
)

// Cents is a money amount in hundredths of the display currency.
// Totals are computed in integer cents only; formatting to a decimal
// string happens at the gateway and API boundaries.
type Cents int64

func (c Cents) String() string {
	n := int64(c)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return fmt.Sprintf("%s%d.%02d", sign, n/100, n%100)
}

// CentsFromAmount converts a decimal amount (e.g. a JSON number like
// 36.97) into cents, rounding half away from zero.
func CentsFromAmount(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}
