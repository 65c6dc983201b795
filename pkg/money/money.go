package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Cents is an amount in the smallest currency unit.
type Cents = int64

var (
	ErrInvalidMoney = errors.New("invalid money amount")
	ErrOverflow     = errors.New("money amount overflows")
)

var hundred = decimal.NewFromInt(100)

// Sum adds amounts as integers, rejecting negatives and int64 overflow.
func Sum(amounts ...Cents) (Cents, error) {
	var total Cents
	for _, a := range amounts {
		if a < 0 {
			return 0, fmt.Errorf("%w: negative amount %d", ErrInvalidMoney, a)
		}
		if total > math.MaxInt64-a {
			return 0, ErrOverflow
		}
		total += a
	}
	return total, nil
}

// ParseDollars converts a decimal string such as "150.00" to cents. More
// than two fractional digits is rejected rather than rounded.
func ParseDollars(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMoney, err)
	}
	if d.IsNegative() {
		return 0, ErrInvalidMoney
	}
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: more than two decimal places", ErrInvalidMoney)
	}
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, ErrOverflow
	}
	return scaled.IntPart(), nil
}

// Format renders cents as "$1,234.56".
func Format(c Cents) string {
	d := decimal.NewFromInt(c).Div(hundred)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	whole := d.Abs().StringFixed(2)
	intPart, frac := whole[:len(whole)-3], whole[len(whole)-2:]
	return fmt.Sprintf("%s$%s.%s", sign, groupThousands(intPart), frac)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	out := digits[:head]
	for i := head; i < len(digits); i += 3 {
		out += "," + digits[i:i+3]
	}
	return out
}

// Utilization returns spent/estimate as a percentage rounded to two places.
// ok is false when estimate is zero.
func Utilization(spent, estimate Cents) (pct decimal.Decimal, ok bool) {
	if estimate <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(spent).
		Mul(hundred).
		Div(decimal.NewFromInt(estimate)).
		Round(2), true
}
