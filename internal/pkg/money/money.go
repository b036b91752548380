// Package money provides the fixed-point decimal amount type used
// everywhere a balance or transaction amount crosses a boundary.
//
// Spec mandates scale-4 fixed-point decimal arithmetic with no binary
// floating point anywhere in the comparison or storage path.
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every Amount is rounded to.
const Scale = 4

// Amount wraps decimal.Decimal and keeps every value normalized to Scale.
type Amount struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Amount{d: decimal.Zero}

// New builds an Amount from a decimal string such as "1000.0000".
func New(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return Amount{d: d.Round(Scale)}, nil
}

// FromDecimal wraps an existing decimal.Decimal, rounding it to Scale.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d.Round(Scale)}
}

// FromInt builds a whole-unit Amount, e.g. FromInt(100) == "100.0000".
func FromInt(n int64) Amount {
	return Amount{d: decimal.NewFromInt(n)}
}

// Decimal returns the underlying decimal.Decimal.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String renders the amount at fixed scale, e.g. "1000.0000".
func (a Amount) String() string { return a.d.StringFixed(Scale) }

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a.d.IsPositive() }

// IsNegative reports whether the amount is strictly less than zero.
func (a Amount) IsNegative() bool { return a.d.IsNegative() }

// IsZero reports exact-zero equality (no epsilon tolerance).
func (a Amount) IsZero() bool { return a.d.IsZero() }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d).Round(Scale)} }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d).Round(Scale)} }

// Neg returns -a.
func (a Amount) Neg() Amount { return Amount{d: a.d.Neg()} }

// Abs returns the absolute value of a.
func (a Amount) Abs() Amount { return Amount{d: a.d.Abs()} }

// Cmp returns -1, 0, or 1 comparing a to b.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// LessThan reports a < b.
func (a Amount) LessThan(b Amount) bool { return a.d.LessThan(b.d) }

// GreaterThan reports a > b.
func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }

// Equal reports exact equality.
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// MarshalJSON renders the amount as a JSON string, not a float, so callers
// never round-trip through binary floating point.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	a.d = d.Round(Scale)
	return nil
}

// Value implements driver.Valuer so Amount can be passed directly to pgx
// as a NUMERIC(20,4) parameter.
func (a Amount) Value() (driver.Value, error) {
	return a.d.StringFixed(Scale), nil
}

// Scan implements sql.Scanner so Amount can be read directly off a
// NUMERIC(20,4) column.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		a.d = decimal.Zero
		return nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		a.d = d.Round(Scale)
		return nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return err
		}
		a.d = d.Round(Scale)
		return nil
	case float64:
		a.d = decimal.NewFromFloat(v).Round(Scale)
		return nil
	default:
		return fmt.Errorf("money: cannot scan %T into Amount", src)
	}
}
