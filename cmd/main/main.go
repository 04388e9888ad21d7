package main

import (
	"flag"
	"fmt"
	"os"

	ap "github.com/lukaszgryglicki/apdual"
)

func main() {
	x0Str := flag.String("x0", "2", "evaluation point, decimal string, e.g. \"2\" or \"0.5e-3\"")
	digits := flag.Uint("digits", 80, "working precision in significant decimal digits")
	bits := flag.Uint("bits", 0, "working precision in bits (overrides -digits when nonzero)")
	out := flag.String("out", "fixed", "output mode: sci|fixed")
	flag.Parse()

	prec := *bits
	if prec == 0 {
		prec = ap.DigitsToBits(*digits)
	}

	x0, err := ap.Parse(*x0Str, prec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse x0:", err)
		os.Exit(1)
	}

	// f(x) = x^3 + 2 * sin(x) * exp(x)
	f := func(x *ap.Dual) (*ap.Dual, error) {
		three := ap.MustParse("3", prec)
		two := ap.MustParseConst("2", prec)
		cube, err := x.Pow(three)
		if err != nil {
			return nil, err
		}
		return cube.Add(two.Mul(ap.Sin(x)).Mul(ap.Exp(x))), nil
	}

	val, der, err := ap.Differentiate(f, x0, prec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "differentiate:", err)
		os.Exit(1)
	}

	d := ap.BitsToDigits(prec)
	show := func(r *ap.Real) string {
		if *out == "sci" {
			return r.StringScientific(d)
		}
		return r.StringFixed(d)
	}

	fmt.Println("f(x) = x^3 + 2*sin(x)*exp(x)")
	fmt.Printf("x0 = %s, precision = %d bits (~%d digits)\n", x0.StringScientific(17), prec, d)
	fmt.Println("---- automatic differentiation ----")
	fmt.Printf("f(x0)  = %s\n", show(val))
	fmt.Printf("f'(x0) = %s\n", show(der))

	// Independent closed-form check computed directly on Real:
	// f(x)  = x^3 + 2 sin(x) e^x
	// f'(x) = 3x^2 + 2 (cos(x) e^x + sin(x) e^x)
	two := ap.MustParse("2", prec)
	three := ap.MustParse("3", prec)
	sinx := ap.SinReal(x0)
	cosx := ap.CosReal(x0)
	expx := ap.ExpReal(x0)
	x2 := ap.MulReal(x0, x0)
	x3 := ap.MulReal(x2, x0)
	fExact := ap.AddReal(x3, ap.MulReal(two, ap.MulReal(sinx, expx)))
	fpExact := ap.AddReal(
		ap.MulReal(three, x2),
		ap.MulReal(two, ap.AddReal(ap.MulReal(cosx, expx), ap.MulReal(sinx, expx))),
	)

	fmt.Println("---- closed-form check ----")
	fmt.Printf("f(x0)  = %s\n", show(fExact))
	fmt.Printf("f'(x0) = %s\n", show(fpExact))
}
