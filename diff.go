package apdual

import "math"

// Func is a scalar function written against the dual-number algebra, so that
// it transparently computes on dual operands. It must be composed only from
// the operations and elementary functions of this package; any error they
// raise is returned unchanged.
type Func func(*Dual) (*Dual, error)

// DefaultPrec is the working precision used when a caller passes 0 bits:
// 167 bits ≈ 50 significant decimal digits.
const DefaultPrec uint = 167

// Differentiate evaluates f and its first derivative at x0 with the given
// working precision in bits (0 means DefaultPrec).
//
// It seeds the evaluation with the dual (x0, 1), tangent 1 because the
// derivative of the independent variable with respect to itself is 1,
// runs f, and reads the
// (value, derivative) pair off the result. x0 is not mutated; it is
// materialized at the requested precision first, and every operation inside
// f works at (at least) that precision.
//
// Errors raised inside f (domain violations, division by zero, unsupported
// dual exponents) propagate unchanged: an invalid derivative never comes back
// as a number.
func Differentiate(f Func, x0 *Real, prec uint) (value, derivative *Real, err error) {
	if prec == 0 {
		prec = DefaultPrec
	}
	seed := Var(x0.Clone().SetPrec(prec))
	y, err := f(seed)
	if err != nil {
		return nil, nil, err
	}
	return y.Value(), y.Derivative(), nil
}

// DigitsToBits converts significant decimal digits into MPFR bits, with a few
// guard bits so the last requested digit survives rounding.
func DigitsToBits(digits uint) uint {
	if digits == 0 {
		return DefaultPrec
	}
	return uint(math.Ceil(float64(digits)*math.Log2(10))) + 8
}

// BitsToDigits estimates the significant decimal digits carried by the given
// precision in bits, leaving a small safety margin. Useful for choosing how
// many digits to print.
func BitsToDigits(bits uint) int {
	d := int(float64(bits)*math.Log10(2)) - 5
	if d < 1 {
		d = 1
	}
	return d
}
