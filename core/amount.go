package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	"revloans/pkg/number"
)

// Amount is an unsigned 256-bit fixed-point token amount. Arithmetic
// matches the issuance protocol exactly: full-width multiply before
// divide, truncation toward zero. Stored in the database as a base-10
// string.
type Amount struct {
	uint256.Int
}

// NewAmount new amount from a uint64
func NewAmount(v uint64) Amount {
	var a Amount
	a.Int.SetUint64(v)
	return a
}

// AmountFromString parses a base-10 unsigned integer string.
func AmountFromString(s string) (Amount, error) {
	var a Amount
	if err := a.Int.SetFromDecimal(s); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	var z Amount
	z.Int.Add(&a.Int, &b.Int)
	return z
}

// Sub returns a - b, saturating at zero. Callers guard b <= a.
func (a Amount) Sub(b Amount) Amount {
	var z Amount
	if _, underflow := z.Int.SubOverflow(&a.Int, &b.Int); underflow {
		return Amount{}
	}
	return z
}

// MulDiv returns a*y/d truncating toward zero.
func (a Amount) MulDiv(y, d Amount) (Amount, error) {
	z, err := number.MulDiv(&a.Int, &y.Int, &d.Int)
	if err != nil {
		return Amount{}, err
	}

	var out Amount
	out.Int.Set(z)
	return out, nil
}

// Cmp compares a and b, returning -1, 0 or 1.
func (a Amount) Cmp(b Amount) int {
	return a.Int.Cmp(&b.Int)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.Int.IsZero()
}

func (a Amount) String() string {
	return a.Int.Dec()
}

// MarshalJSON renders the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Int.Dec())
}

// UnmarshalJSON accepts a decimal string or a bare number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}

	if s == "" {
		a.Int.Clear()
		return nil
	}

	return a.Int.SetFromDecimal(s)
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.Int.Dec(), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		a.Int.Clear()
		return nil
	case string:
		if v == "" {
			a.Int.Clear()
			return nil
		}
		return a.Int.SetFromDecimal(v)
	case []byte:
		if len(v) == 0 {
			a.Int.Clear()
			return nil
		}
		return a.Int.SetFromDecimal(string(v))
	case int64:
		if v < 0 {
			return fmt.Errorf("core: negative amount %d", v)
		}
		a.Int.SetUint64(uint64(v))
		return nil
	default:
		return fmt.Errorf("core: cannot scan %T into Amount", src)
	}
}
