package apdual

import (
	"errors"
	"fmt"
)

// Error classes. Every failing operation wraps one of these, so callers can
// dispatch with errors.Is while the message pins down the offending operation
// and operand.
var (
	// ErrDivisionByZero reports a division whose denominator value part is exactly zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDomain reports an argument outside the real-valued domain of a function.
	ErrDomain = errors.New("domain error")
	// ErrUnsupported reports an operation the dual-number algebra does not define.
	ErrUnsupported = errors.New("unsupported operation")
)

// Dual is a truncated dual number value + ε·derivative with ε² = 0, both
// components arbitrary-precision reals. Carrying both through every operation
// yields the exact first derivative of the computation (forward-mode automatic
// differentiation).
//
// Duals are immutable: every operation returns a newly constructed Dual whose
// components live at the max precision of the operands' components.
type Dual struct {
	val *Real
	der *Real
}

// NewDual constructs a dual from explicit value and derivative parts (cloned).
func NewDual(val, der *Real) *Dual {
	return &Dual{val: val.Clone(), der: der.Clone()}
}

// Const lifts a scalar into the algebra with derivative 0, i.e. "this operand
// does not depend on the differentiation variable".
func Const(x *Real) *Dual {
	return &Dual{val: x.Clone(), der: New(x.Prec())}
}

// Var lifts the differentiation variable itself: derivative 1 (dx/dx = 1).
func Var(x *Real) *Dual {
	one := New(x.Prec()).SetInt64(1)
	return &Dual{val: x.Clone(), der: one}
}

// ConstFloat64 lifts a float64 constant at the given precision in bits.
func ConstFloat64(v float64, prec uint) *Dual {
	return &Dual{val: New(prec).SetFloat64(v), der: New(prec)}
}

// ParseConst lifts a base-10 real literal at the given precision in bits.
func ParseConst(s string, prec uint) (*Dual, error) {
	x, err := Parse(s, prec)
	if err != nil {
		return nil, err
	}
	return &Dual{val: x, der: New(prec)}, nil
}

// MustParseConst panics on error.
func MustParseConst(s string, prec uint) *Dual {
	d, err := ParseConst(s, prec)
	if err != nil {
		panic(err)
	}
	return d
}

// Value returns the value (primal) part. Callers must not mutate it.
func (a *Dual) Value() *Real { return a.val }

// Derivative returns the derivative (tangent) part. Callers must not mutate it.
func (a *Dual) Derivative() *Real { return a.der }

// Clone returns a deep copy.
func (a *Dual) Clone() *Dual { return &Dual{val: a.val.Clone(), der: a.der.Clone()} }

// Close frees C resources of both components.
func (a *Dual) Close() {
	a.val.Close()
	a.der.Close()
}

func (a *Dual) String() string {
	return fmt.Sprintf("(%s, %s)", a.val.StringScientific(17), a.der.StringScientific(17))
}

// StringFixed formats both components with the given fractional digits.
func (a *Dual) StringFixed(digits int) string {
	return fmt.Sprintf("(%s, %s)", a.val.StringFixed(digits), a.der.StringFixed(digits))
}

// precOne returns the working precision for a result involving a alone.
func (a *Dual) precOne() uint {
	p := a.val.Prec()
	if q := a.der.Prec(); q > p {
		p = q
	}
	return p
}

func precPair(a, b *Dual) uint {
	p := a.precOne()
	if q := b.precOne(); q > p {
		p = q
	}
	return p
}

// Add returns a + b: (x+y, dx+dy).
func (a *Dual) Add(b *Dual) *Dual {
	p := precPair(a, b)
	return &Dual{
		val: New(p).Add(a.val, b.val),
		der: New(p).Add(a.der, b.der),
	}
}

// Sub returns a - b: (x-y, dx-dy). The reversed form is b.Sub(a).
func (a *Dual) Sub(b *Dual) *Dual {
	p := precPair(a, b)
	return &Dual{
		val: New(p).Sub(a.val, b.val),
		der: New(p).Sub(a.der, b.der),
	}
}

// Neg returns -a: (-x, -dx).
func (a *Dual) Neg() *Dual {
	p := a.precOne()
	return &Dual{
		val: New(p).Neg(a.val),
		der: New(p).Neg(a.der),
	}
}

// Mul returns a * b by the product rule:
// (x + ε dx)(y + ε dy) = xy + ε (x dy + y dx).
func (a *Dual) Mul(b *Dual) *Dual {
	p := precPair(a, b)
	der := New(p).Mul(a.val, b.der)
	der.Add(der, New(p).Mul(b.val, a.der))
	return &Dual{
		val: New(p).Mul(a.val, b.val),
		der: der,
	}
}

// Div returns a / b by the quotient rule:
// (x + ε dx) / (y + ε dy) = x/y + ε (dx·y - x·dy)/y².
// Fails when the denominator's value part is exactly zero. The reversed form
// is b.Div(a).
func (a *Dual) Div(b *Dual) (*Dual, error) {
	if b.val.IsZero() {
		return nil, fmt.Errorf("apdual: div: denominator value part is zero: %w", ErrDivisionByZero)
	}
	p := precPair(a, b)
	inv := New(p).Inv(b.val)
	val := New(p).Mul(a.val, inv)
	der := New(p).Mul(a.der, b.val)
	der.Sub(der, New(p).Mul(a.val, b.der))
	der.Mul(der, New(p).Mul(inv, inv))
	return &Dual{val: val, der: der}, nil
}

// Pow returns a^n for a scalar exponent n, by the power rule
// d/dx x^n = n·x^(n-1). The power is routed through MPFR's real pow, which is
// defined for negative bases with integer exponents; a negative base with a
// fractional exponent is undefined over the reals and reported as a domain
// error.
func (a *Dual) Pow(n *Real) (*Dual, error) {
	p := a.precOne()
	if q := n.Prec(); q > p {
		p = q
	}
	val := New(p).Pow(a.val, n)
	if val.IsNaN() || val.IsInf() {
		return nil, fmt.Errorf("apdual: pow: base %s with exponent %s undefined over the reals: %w",
			a.val.StringScientific(8), n.StringScientific(8), ErrDomain)
	}
	nm1 := New(p).Sub(n, New(p).SetInt64(1))
	der := New(p).Pow(a.val, nm1)
	if der.IsNaN() || der.IsInf() {
		return nil, fmt.Errorf("apdual: pow: derivative needs %s^(%s) which is undefined over the reals: %w",
			a.val.StringScientific(8), nm1.StringScientific(8), ErrDomain)
	}
	der.Mul(der, n)
	der.Mul(der, a.der)
	return &Dual{val: val, der: der}, nil
}

// PowBase returns base^a for a scalar base:
// f(x) = base^x, f'(x) = base^x · ln(base), so the tangent is
// base^x · dx · ln(base). The base must be positive (the logarithm is needed).
func PowBase(base *Real, a *Dual) (*Dual, error) {
	if base.Sign() <= 0 {
		return nil, fmt.Errorf("apdual: pow: base %s is not positive: %w",
			base.StringScientific(8), ErrDomain)
	}
	p := a.precOne()
	if q := base.Prec(); q > p {
		p = q
	}
	val := New(p).Pow(base, a.val)
	der := New(p).Log(base)
	der.Mul(der, a.der)
	der.Mul(der, val)
	return &Dual{val: val, der: der}, nil
}

// PowDual reports that raising a dual number to a dual-number exponent is not
// part of this algebra (scalar exponents only; use Pow or PowBase).
func PowDual(a, b *Dual) (*Dual, error) {
	return nil, fmt.Errorf("apdual: pow: dual-number exponent is not supported, scalar exponents only: %w",
		ErrUnsupported)
}

// --- elementary functions on Dual ---

// Exp returns exp(a): exp(x) + ε dx·exp(x).
func Exp(a *Dual) *Dual {
	p := a.precOne()
	v := New(p).Exp(a.val)
	return &Dual{val: v, der: New(p).Mul(a.der, v)}
}

// Log returns log(a): log(x) + ε dx/x. Fails when x <= 0.
func Log(a *Dual) (*Dual, error) {
	if a.val.Sign() <= 0 {
		return nil, fmt.Errorf("apdual: log: argument %s is not positive: %w",
			a.val.StringScientific(8), ErrDomain)
	}
	p := a.precOne()
	return &Dual{
		val: New(p).Log(a.val),
		der: New(p).Div(a.der, a.val),
	}, nil
}

// Sin returns sin(a): sin(x) + ε dx·cos(x).
func Sin(a *Dual) *Dual {
	p := a.precOne()
	return &Dual{
		val: New(p).Sin(a.val),
		der: New(p).Mul(a.der, New(p).Cos(a.val)),
	}
}

// Cos returns cos(a): cos(x) - ε dx·sin(x).
func Cos(a *Dual) *Dual {
	p := a.precOne()
	der := New(p).Mul(a.der, New(p).Sin(a.val))
	der.Neg(der)
	return &Dual{val: New(p).Cos(a.val), der: der}
}

// Tan returns tan(a), composed as Sin(a)/Cos(a) through the quotient rule,
// so it inherits the division-by-zero condition when cos(x) == 0.
func Tan(a *Dual) (*Dual, error) {
	return Sin(a).Div(Cos(a))
}

// Sqrt returns sqrt(a): sqrt(x) + ε dx/(2·sqrt(x)). Fails when x < 0
// (undefined over the reals) and when x == 0 (the tangent divides by zero).
func Sqrt(a *Dual) (*Dual, error) {
	if a.val.Sign() < 0 {
		return nil, fmt.Errorf("apdual: sqrt: argument %s is negative: %w",
			a.val.StringScientific(8), ErrDomain)
	}
	if a.val.IsZero() {
		return nil, fmt.Errorf("apdual: sqrt: tangent at zero divides by zero: %w", ErrDivisionByZero)
	}
	p := a.precOne()
	v := New(p).Sqrt(a.val)
	den := New(p).Add(v, v)
	return &Dual{val: v, der: New(p).Div(a.der, den)}, nil
}
