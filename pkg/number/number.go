package number

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	// ErrDivisionByZero division by zero
	ErrDivisionByZero = errors.New("number: division by zero")
	// ErrOverflow result does not fit in 256 bits
	ErrOverflow = errors.New("number: overflow")
)

// MulDiv returns x*y/d with the product kept at full width before the
// division, truncating toward zero. A zero denominator is an error,
// never a silent zero.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}

	p := new(big.Int).Mul(x.ToBig(), y.ToBig())
	p.Quo(p, d.ToBig())

	z, overflow := uint256.FromBig(p)
	if overflow {
		return nil, ErrOverflow
	}

	return z, nil
}

// FromDecimal parses a base-10 unsigned integer string.
func FromDecimal(s string) (*uint256.Int, error) {
	return uint256.FromDecimal(s)
}

// Humanize scales an integer token amount down by the given number of
// accounting decimals. Display only; core math never round-trips
// through decimal.
func Humanize(v *uint256.Int, decimals uint32) decimal.Decimal {
	return decimal.NewFromBigInt(v.ToBig(), -int32(decimals))
}
