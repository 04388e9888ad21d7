// Package apdual provides forward-mode automatic differentiation over
// arbitrary-precision reals for Go.
//
// It wraps the GNU MPFR/GMP libraries via cgo and exposes a Go-friendly API
// with parsing/formatting from/to strings, configurable precision, and a
// dual-number algebra (value + derivative carried through every operation by
// the chain rule), so derivatives are exact up to the working precision with
// no finite-difference truncation error.
//
// Build requirements:
//   - libmpfr, libgmp (headers + libs)
//     Debian/Ubuntu: sudo apt-get install -y libmpfr-dev libgmp-dev build-essential
//     macOS/Homebrew: brew install mpfr gmp
//
// Minimal usage:
//
//	f := func(x *apdual.Dual) (*apdual.Dual, error) {
//		return apdual.Sin(x)
//	}
//	x0 := apdual.MustParse("2", 256)
//	val, der, err := apdual.Differentiate(f, x0, 256)
//	fmt.Println(val.StringFixed(50), der.StringFixed(50))
//
// SPDX-License-Identifier: MIT
package apdual

/*
#cgo CFLAGS: -O2
#cgo LDFLAGS: -lmpfr -lgmp
#include <stdlib.h>
#include <string.h>
#include <mpfr.h>

// Helpers to format MPFR values to C strings we can return to Go.
static char* apd_mpfr_to_str_fixed(mpfr_srcptr x, int digits) {
    if (digits < 0) digits = 0;
    int n = mpfr_snprintf(NULL, 0, "%.*Rf", digits, x);
    if (n < 0) return NULL;
    char *buf = (char*)malloc((size_t)n + 1);
    if (!buf) return NULL;
    if (mpfr_snprintf(buf, (size_t)n + 1, "%.*Rf", digits, x) < 0) {
        free(buf);
        return NULL;
    }
    return buf;
}

static char* apd_mpfr_to_str_sci(mpfr_srcptr x, int digits) {
    if (digits < 1) digits = 1;
    int n = mpfr_snprintf(NULL, 0, "%.*Re", digits, x);
    if (n < 0) return NULL;
    char *buf = (char*)malloc((size_t)n + 1);
    if (!buf) return NULL;
    if (mpfr_snprintf(buf, (size_t)n + 1, "%.*Re", digits, x) < 0) {
        free(buf);
        return NULL;
    }
    return buf;
}

// Helpers so Go code doesn't reference MPFR macros directly (cgo can't see macros).
static void apd_set(mpfr_ptr rop, mpfr_srcptr op, mpfr_rnd_t rnd) { mpfr_set(rop, op, rnd); }
static void apd_abs(mpfr_ptr rop, mpfr_srcptr op, mpfr_rnd_t rnd) { mpfr_abs(rop, op, rnd); }
static int  apd_cmp(mpfr_srcptr a, mpfr_srcptr b) { return mpfr_cmp(a, b); }
static int  apd_sgn(mpfr_srcptr x) { return mpfr_sgn(x); }
static int  apd_zero_p(mpfr_srcptr x) { return mpfr_zero_p(x); }
static int  apd_nan_p(mpfr_srcptr x) { return mpfr_nan_p(x); }
static int  apd_inf_p(mpfr_srcptr x) { return mpfr_inf_p(x); }
static int  apd_integer_p(mpfr_srcptr x) { return mpfr_integer_p(x); }
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unsafe"
)

// default rounding mode (nearest)
var defaultRnd = C.mpfr_rnd_t(C.MPFR_RNDN)

// Real is an arbitrary-precision real backed by GNU MPFR.
// Use New/Parse; zero value is not usable.
type Real struct {
	x    C.mpfr_t
	prec uint
	init bool
}

// New allocates a value with the given precision in bits (like MPFR). If bits==0, 53 is used.
func New(bits uint) *Real {
	if bits == 0 {
		bits = 53
	}
	r := &Real{prec: bits}
	C.mpfr_init2(&r.x[0], C.mpfr_prec_t(bits))
	r.init = true
	runtime.SetFinalizer(r, func(rr *Real) {
		if rr.init {
			C.mpfr_clear(&rr.x[0])
			rr.init = false
		}
	})
	return r
}

// Close frees C resources.
func (r *Real) Close() {
	if r != nil && r.init {
		C.mpfr_clear(&r.x[0])
		r.init = false
	}
}

// Prec returns precision in bits.
func (r *Real) Prec() uint { return r.prec }

// SetPrec changes precision (rounding value to the new precision).
func (r *Real) SetPrec(bits uint) *Real {
	if !r.init {
		panic("apdual: not initialized")
	}
	if bits == 0 {
		bits = 53
	}
	if bits == r.prec {
		return r
	}
	C.mpfr_prec_round(&r.x[0], C.mpfr_prec_t(bits), defaultRnd)
	r.prec = bits
	return r
}

// Clone returns a deep copy.
func (r *Real) Clone() *Real {
	out := New(r.prec)
	C.apd_set(&out.x[0], &r.x[0], defaultRnd)
	return out
}

// Parse parses a real literal at given precision. Accepts anything MPFR's
// base-10 string parser does: "3.25", "-1e100", "0.5e-7", ...
func Parse(s string, prec uint) (*Real, error) {
	r := New(prec)
	if err := r.SetString(s); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// MustParse panics on error.
func MustParse(s string, prec uint) *Real {
	r, err := Parse(s, prec)
	if err != nil {
		panic(err)
	}
	return r
}

// SetString sets r from a base-10 real string.
func (r *Real) SetString(s string) error { return r.SetBase(s, 10) }

// SetBase sets r from a string in the given base (<=0 defaults to 10).
func (r *Real) SetBase(s string, base int) error {
	if !r.init {
		return errors.New("apdual: not initialized")
	}
	cs := C.CString(strings.TrimSpace(s))
	defer C.free(unsafe.Pointer(cs))
	b := C.int(base)
	if base <= 0 {
		b = 10
	}
	if C.mpfr_set_str(&r.x[0], cs, b, C.MPFR_RNDN) != 0 {
		return fmt.Errorf("apdual: invalid real literal %q", s)
	}
	return nil
}

// SetFloat64 sets r to v.
func (r *Real) SetFloat64(v float64) *Real {
	C.mpfr_set_d(&r.x[0], C.double(v), defaultRnd)
	return r
}

// SetInt64 sets r to v.
func (r *Real) SetInt64(v int64) *Real {
	C.mpfr_set_si(&r.x[0], C.long(v), defaultRnd)
	return r
}

// Float64 returns the nearest float64 (lossy for high precision).
func (r *Real) Float64() float64 {
	return float64(C.mpfr_get_d(&r.x[0], defaultRnd))
}

// Formatting
func (r *Real) StringFixed(digits int) string {
	if digits < 0 {
		digits = 0
	}
	if !r.init {
		return "(invalid)"
	}
	p := C.apd_mpfr_to_str_fixed(&r.x[0], C.int(digits))
	if p == nil {
		return "<oom>"
	}
	defer C.free(unsafe.Pointer(p))
	return C.GoString(p)
}

func (r *Real) StringScientific(digits int) string {
	if digits < 1 {
		digits = 1
	}
	if !r.init {
		return "(invalid)"
	}
	p := C.apd_mpfr_to_str_sci(&r.x[0], C.int(digits))
	if p == nil {
		return "<oom>"
	}
	defer C.free(unsafe.Pointer(p))
	return C.GoString(p)
}

// Predicates / comparisons
func (r *Real) Sign() int       { return int(C.apd_sgn(&r.x[0])) }
func (r *Real) IsZero() bool    { return C.apd_zero_p(&r.x[0]) != 0 }
func (r *Real) IsNaN() bool     { return C.apd_nan_p(&r.x[0]) != 0 }
func (r *Real) IsInf() bool     { return C.apd_inf_p(&r.x[0]) != 0 }
func (r *Real) IsInteger() bool { return C.apd_integer_p(&r.x[0]) != 0 }
func (r *Real) Cmp(b *Real) int { return int(C.apd_cmp(&r.x[0], &b.x[0])) }

// Algebraic ops (mutating; return receiver for chaining)
func (r *Real) Set(a *Real) *Real { C.apd_set(&r.x[0], &a.x[0], defaultRnd); return r }
func (r *Real) Add(a, b *Real) *Real {
	C.mpfr_add(&r.x[0], &a.x[0], &b.x[0], defaultRnd)
	return r
}
func (r *Real) Sub(a, b *Real) *Real {
	C.mpfr_sub(&r.x[0], &a.x[0], &b.x[0], defaultRnd)
	return r
}
func (r *Real) Mul(a, b *Real) *Real {
	C.mpfr_mul(&r.x[0], &a.x[0], &b.x[0], defaultRnd)
	return r
}
func (r *Real) Div(a, b *Real) *Real {
	C.mpfr_div(&r.x[0], &a.x[0], &b.x[0], defaultRnd)
	return r
}
func (r *Real) Neg(a *Real) *Real { C.mpfr_neg(&r.x[0], &a.x[0], defaultRnd); return r }
func (r *Real) Abs(a *Real) *Real { C.apd_abs(&r.x[0], &a.x[0], defaultRnd); return r }
func (r *Real) Inv(a *Real) *Real {
	// r = 1 / a
	C.mpfr_set_si(&r.x[0], 1, defaultRnd)
	C.mpfr_div(&r.x[0], &r.x[0], &a.x[0], defaultRnd)
	return r
}

// Elementary/transcendental
func (r *Real) Sqrt(a *Real) *Real { C.mpfr_sqrt(&r.x[0], &a.x[0], defaultRnd); return r }
func (r *Real) Exp(a *Real) *Real  { C.mpfr_exp(&r.x[0], &a.x[0], defaultRnd); return r }
func (r *Real) Log(a *Real) *Real  { C.mpfr_log(&r.x[0], &a.x[0], defaultRnd); return r }
func (r *Real) Pow(a, b *Real) *Real {
	C.mpfr_pow(&r.x[0], &a.x[0], &b.x[0], defaultRnd)
	return r
}
func (r *Real) PowInt64(a *Real, n int64) *Real {
	C.mpfr_pow_si(&r.x[0], &a.x[0], C.long(n), defaultRnd)
	return r
}

func (r *Real) Sin(a *Real) *Real { C.mpfr_sin(&r.x[0], &a.x[0], defaultRnd); return r }
func (r *Real) Cos(a *Real) *Real { C.mpfr_cos(&r.x[0], &a.x[0], defaultRnd); return r }
func (r *Real) Tan(a *Real) *Real { C.mpfr_tan(&r.x[0], &a.x[0], defaultRnd); return r }

// Pi sets r to π at r's precision.
func (r *Real) Pi() *Real { C.mpfr_const_pi(&r.x[0], defaultRnd); return r }

// Non-mutating convenience wrappers
func AddReal(a, b *Real) *Real { return New(maxPrec(a, b)).Add(a, b) }
func SubReal(a, b *Real) *Real { return New(maxPrec(a, b)).Sub(a, b) }
func MulReal(a, b *Real) *Real { return New(maxPrec(a, b)).Mul(a, b) }
func DivReal(a, b *Real) *Real { return New(maxPrec(a, b)).Div(a, b) }
func NegReal(a *Real) *Real    { return New(a.prec).Neg(a) }
func AbsReal(a *Real) *Real    { return New(a.prec).Abs(a) }
func InvReal(a *Real) *Real    { return New(a.prec).Inv(a) }
func SqrtReal(a *Real) *Real   { return New(a.prec).Sqrt(a) }
func ExpReal(a *Real) *Real    { return New(a.prec).Exp(a) }
func LogReal(a *Real) *Real    { return New(a.prec).Log(a) }
func PowReal(a, b *Real) *Real { return New(maxPrec(a, b)).Pow(a, b) }
func SinReal(a *Real) *Real    { return New(a.prec).Sin(a) }
func CosReal(a *Real) *Real    { return New(a.prec).Cos(a) }
func TanReal(a *Real) *Real    { return New(a.prec).Tan(a) }

func maxPrec(a, b *Real) uint {
	p := a.prec
	if b.prec > p {
		p = b.prec
	}
	return p
}
