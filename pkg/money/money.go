// Package money holds amounts as integer minor units.
//
// Amounts cross the API as JSON numbers or numeric strings and are stored as
// int64 so that balance arithmetic never accumulates float rounding error.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	ErrNotNumeric = errors.New("amount must be numeric")
	ErrFractional = errors.New("amount must be a whole number of minor units")
	ErrOverflow   = errors.New("amount out of range")
)

// Amount is a signed quantity of minor currency units.
type Amount int64

// MaxAmount caps a single ledger entry. It leaves enough headroom that sums of
// many entries still fit in int64.
const MaxAmount Amount = 1_000_000_000_000_000

// Within reports whether |a| <= MaxAmount.
func (a Amount) Within() bool {
	return a >= -MaxAmount && a <= MaxAmount
}

// Add returns a+b or ErrOverflow if the result does not fit in int64.
func Add(a, b Amount) (Amount, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return a + b, nil
}

// Sub returns a-b or ErrOverflow if the result does not fit in int64.
func Sub(a, b Amount) (Amount, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, fmt.Errorf("%w: %d - %d", ErrOverflow, a, b)
	}
	return a - b, nil
}

// Parse converts a decimal string into an Amount. Fractions are rejected
// rather than rounded.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts d to an Amount if it is integral and fits in int64.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrFractional, d.String())
	}
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s out of range", ErrNotNumeric, d.String())
	}
	return Amount(d.IntPart()), nil
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a))
}

func (a Amount) Int64() int64 { return int64(a) }

// Format renders a with exp implied decimal places, e.g. Format(12345, 2) == "123.45".
func (a Amount) Format(exp int32) string {
	return a.Decimal().Shift(-exp).StringFixed(exp)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(a), 10), nil
}

// UnmarshalJSON accepts 1500, 1500.0, "1500" and rejects everything else.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = bytes.TrimSpace(b[1 : len(b)-1])
	}
	if len(b) == 0 {
		return ErrNotNumeric
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Sum is a nullable aggregate result. It scans SUM() output from any driver
// (int64, float64, []byte or NULL) through decimal.
type Sum struct {
	decimal.NullDecimal
}

// Amount converts the sum, failing with ErrOverflow when it exceeds int64.
func (s Sum) Amount() (Amount, error) {
	if !s.Valid {
		return 0, nil
	}
	d := s.Decimal.Round(0)
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, d.String())
	}
	return Amount(d.IntPart()), nil
}
