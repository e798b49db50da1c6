// Package money holds the two-decimal fixed-point helpers used for every
// monetary field. Values are shopspring decimals; float64 is never used for
// arithmetic.
package money

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits stored for every amount.
const Scale = 2

var hundred = decimal.NewFromInt(100)

// ErrInvalid is returned by Parse for input that is not a decimal number.
var ErrInvalid = errors.New("invalid monetary amount")

// Round normalises d to Scale fractional digits, rounding half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Parse reads a decimal string such as "25000" or "12.5" and rounds it to Scale.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return Round(d), nil
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Percent returns base × pct / 100 rounded to Scale.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(pct).Div(hundred))
}

// Times returns price × qty.
func Times(price decimal.Decimal, qty int32) decimal.Decimal {
	return price.Mul(decimal.NewFromInt32(qty))
}

// String formats d with exactly Scale fractional digits.
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// FromNumeric converts a NUMERIC column value. NULL and unreadable values are zero.
func FromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// ToNumeric converts d to a NUMERIC value with Scale fractional digits.
func ToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(Scale))
	return n
}

// NullNumeric returns a NULL NUMERIC when d is nil.
func NullNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return ToNumeric(*d)
}

// NumericString formats a NUMERIC column with Scale fractional digits; NULL is "0.00".
func NumericString(n pgtype.Numeric) string {
	return String(FromNumeric(n))
}
