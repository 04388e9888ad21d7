package apdual

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"testing"
)

// helper: parse with test precision
func tp(s string) *Real { return MustParse(s, 128) }

// helper: parse decimal string (from StringFixed) to float64
func f64(s string) float64 {
	// strings may be like "+0.0000" — trim leading '+'
	s = strings.TrimSpace(s)
	if len(s) > 0 && s[0] == '+' {
		s = s[1:]
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// helper: |a-b| <= tol
func equalApprox(a, b *Real, tol float64) bool {
	diff := SubReal(a, b)
	return math.Abs(f64(diff.StringFixed(40))) <= tol
}

func TestParseFormatRoundTrip(t *testing.T) {
	tests := []string{
		"0",
		"1",
		"-1",
		"3.1415926535",
		"-2.718281828",
		"1e100",
		"-0.5e-7",
	}
	for _, s := range tests {
		r, err := Parse(s, 128)
		if err != nil {
			t.Fatalf("Parse %q failed: %v", s, err)
		}
		_ = r.StringFixed(30)      // ensure formatting works
		_ = r.StringScientific(20) // ensure sci formatting works
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("not-a-number", 128); err == nil {
		t.Fatalf("Parse of garbage succeeded")
	}
}

func TestBasicAlgebra(t *testing.T) {
	x := tp("3.25")
	negx := NegReal(x)
	sum := AddReal(x, negx)
	if !equalApprox(sum, tp("0"), 1e-30) {
		t.Fatalf("x + (-x) != 0, got %s", sum.StringFixed(20))
	}

	one := tp("1")
	invx := InvReal(x)
	prod := MulReal(x, invx)
	if !equalApprox(prod, one, 1e-28) { // slightly looser because of division
		t.Fatalf("x * inv(x) != 1, got %s", prod.StringFixed(20))
	}

	if !equalApprox(AbsReal(negx), x, 1e-30) {
		t.Fatalf("abs(-x) != x, got %s", AbsReal(negx).StringFixed(20))
	}
}

func TestSignCmpZero(t *testing.T) {
	if tp("2.5").Sign() != 1 || tp("-2.5").Sign() != -1 || tp("0").Sign() != 0 {
		t.Fatalf("Sign mismatch")
	}
	if !tp("0").IsZero() || tp("1e-100").IsZero() {
		t.Fatalf("IsZero mismatch")
	}
	if tp("1").Cmp(tp("2")) >= 0 || tp("2").Cmp(tp("1")) <= 0 || tp("3").Cmp(tp("3")) != 0 {
		t.Fatalf("Cmp mismatch")
	}
}

func TestExpLog(t *testing.T) {
	x := tp("0.75")
	el := ExpReal(LogReal(x)) // exp(log(x)) ~= x
	if !equalApprox(el, x, 1e-28) {
		t.Fatalf("exp(log(x)) != x, got %s vs %s", el.StringFixed(20), x.StringFixed(20))
	}
}

func TestTrigIdentity(t *testing.T) {
	// sin^2(x)+cos^2(x)=1
	x := tp("0.5")
	s := SinReal(x)
	c := CosReal(x)
	sum := AddReal(MulReal(s, s), MulReal(c, c))
	if !equalApprox(sum, tp("1"), 1e-28) {
		t.Fatalf("sin^2+cos^2 != 1, got %s", sum.StringFixed(30))
	}
}

func TestPowInt64NegativeBase(t *testing.T) {
	x := tp("-2")
	sq := New(128).PowInt64(x, 2)
	if !equalApprox(sq, tp("4"), 1e-30) {
		t.Fatalf("(-2)^2 != 4, got %s", sq.StringFixed(20))
	}
	cube := New(128).PowInt64(x, 3)
	if !equalApprox(cube, tp("-8"), 1e-30) {
		t.Fatalf("(-2)^3 != -8, got %s", cube.StringFixed(20))
	}
}

func TestPowRealNegativeBaseFractionalExponentIsNaN(t *testing.T) {
	got := PowReal(tp("-2"), tp("0.5"))
	if !got.IsNaN() {
		t.Fatalf("(-2)^0.5 over the reals should be NaN, got %s", got.StringScientific(20))
	}
}

func TestPi(t *testing.T) {
	pi := New(128).Pi()
	if !equalApprox(pi, tp("3.14159265358979323846"), 1e-20) {
		t.Fatalf("pi mismatch: %s", pi.StringFixed(25))
	}
	if !equalApprox(SinReal(pi), tp("0"), 1e-30) {
		t.Fatalf("sin(pi) != 0 within precision: %s", SinReal(pi).StringScientific(20))
	}
}

func TestSetPrecPreservesValue(t *testing.T) {
	x := MustParse("1.25", 256)
	x.SetPrec(128)
	if x.Prec() != 128 {
		t.Fatalf("Prec after SetPrec = %d", x.Prec())
	}
	// 1.25 is exactly representable, so rounding must not move it.
	if !equalApprox(x, tp("1.25"), 0) {
		t.Fatalf("SetPrec moved exactly representable value: %s", x.StringFixed(20))
	}
}

// --- High-precision tests for exp/log and very large integers ---

// bigPow2String returns the exact decimal string of 2^n using math/big.
func bigPow2String(n uint) string {
	b := new(big.Int).Lsh(big.NewInt(1), n)
	return b.String()
}

// trimPlusZero removes a leading '+' and normalizes "-0" to "0".
func trimPlusZero(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "-0" {
		return "0"
	}
	return s
}

func TestFormatPow2_1024_AllDigits(t *testing.T) {
	want := bigPow2String(1024)
	r, err := Parse(want, 2048)
	if err != nil {
		t.Fatalf("Parse(2^1024) failed: %v", err)
	}
	got := r.StringFixed(0)
	if trimPlusZero(got) != want {
		t.Fatalf("format mismatch for 2^1024: got %q", got)
	}
}

func TestExpLog_Pow2_1024_AllDigits(t *testing.T) {
	prec := uint(4096)
	want := bigPow2String(1024)
	two := MustParse("2", prec)
	ln2 := New(prec).Log(two)
	k := MustParse("1024", prec)
	tval := New(prec).Mul(ln2, k)
	pow := New(prec).Exp(tval) // exp(ln(2)*1024) = 2^1024
	got := pow.StringFixed(0)
	if trimPlusZero(got) != want {
		t.Fatalf("exp(log(2)*1024) mismatch: got %q", got)
	}
}

func TestLog1AndExp0Exact(t *testing.T) {
	prec := uint(256)
	one := MustParse("1", prec)
	zero := MustParse("0", prec)
	ln1 := New(prec).Log(one)
	if trimPlusZero(ln1.StringFixed(0)) != "0" {
		t.Fatalf("log(1) != 0, got %s", ln1.StringFixed(0))
	}
	e0 := New(prec).Exp(zero)
	if trimPlusZero(e0.StringFixed(0)) != "1" {
		t.Fatalf("exp(0) != 1, got %s", e0.StringFixed(0))
	}
}
