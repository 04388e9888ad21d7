package main

// Newton root finder driven by exact derivatives from apdual.
//
// Usage (exactly 3 positional args):
//   newton <function> <x0> <precision_bits>
//
// Functions:
//   x2-2    f(x) = x^2 - 2          (root sqrt(2))
//   x3-x-2  f(x) = x^3 - x - 2
//   cosx-x  f(x) = cos(x) - x       (the Dottie number)
//   logx    f(x) = log(x) - 1       (root e)
//   expx-3  f(x) = exp(x) - 3       (root log(3))
//
// Each step asks apdual.Differentiate for (f(xn), f'(xn)), exact to the
// working precision with no finite-difference step size, and updates
// x_{n+1} = x_n - f(x_n)/f'(x_n). Iteration count and stopping tolerance are
// chosen from the precision: Newton doubles correct digits per step, so
// ~log2(bits) iterations suffice once in the basin of attraction; we allow a
// generous multiple.
//
// SPDX-License-Identifier: MIT

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	ap "github.com/lukaszgryglicki/apdual"
)

var functions = map[string]ap.Func{
	"x2-2": func(x *ap.Dual) (*ap.Dual, error) {
		two := ap.MustParseConst("2", x.Value().Prec())
		return x.Mul(x).Sub(two), nil
	},
	"x3-x-2": func(x *ap.Dual) (*ap.Dual, error) {
		two := ap.MustParseConst("2", x.Value().Prec())
		return x.Mul(x).Mul(x).Sub(x).Sub(two), nil
	},
	"cosx-x": func(x *ap.Dual) (*ap.Dual, error) {
		return ap.Cos(x).Sub(x), nil
	},
	"logx": func(x *ap.Dual) (*ap.Dual, error) {
		one := ap.MustParseConst("1", x.Value().Prec())
		lx, err := ap.Log(x)
		if err != nil {
			return nil, err
		}
		return lx.Sub(one), nil
	},
	"expx-3": func(x *ap.Dual) (*ap.Dual, error) {
		three := ap.MustParseConst("3", x.Value().Prec())
		return ap.Exp(x).Sub(three), nil
	},
}

func main() {
	flag.CommandLine.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <function> <x0> <precision_bits>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Functions: x2-2 x3-x-2 cosx-x logx expx-3\n")
		fmt.Fprintf(os.Stderr, "Example: %s x2-2 1.5 1024\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}

	f, ok := functions[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown function %q\n", flag.Arg(0))
		os.Exit(2)
	}
	bits64, err := strconv.ParseUint(flag.Arg(2), 10, 32)
	if err != nil || bits64 == 0 {
		fmt.Fprintln(os.Stderr, "invalid precision bits; need positive integer")
		os.Exit(2)
	}
	prec := uint(bits64)

	x, err := ap.Parse(flag.Arg(1), prec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse x0:", err)
		os.Exit(2)
	}

	root, steps, err := newton(f, x, prec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "newton:", err)
		os.Exit(1)
	}

	digits := ap.BitsToDigits(prec)
	fmt.Printf("f = %s, x0 = %s\n", flag.Arg(0), flag.Arg(1))
	fmt.Printf("precision=%d bits, printing ~%d significant digits\n", prec, digits)
	fmt.Printf("converged in %d steps\n", steps)
	fmt.Printf("root: %s\n", root.StringScientific(digits))

	// residual sanity check: f(root) should vanish to the working precision
	val, _, err := ap.Differentiate(f, root, prec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "residual check:", err)
		os.Exit(1)
	}
	fmt.Printf("f(root) (sanity): %s\n", val.StringScientific(10))
}

// newton iterates x - f(x)/f'(x) until the step size falls below 2^-(bits-8)
// relative to x, or the iteration budget runs out.
func newton(f ap.Func, x0 *ap.Real, prec uint) (*ap.Real, int, error) {
	maxSteps := 8 * int(math.Ceil(math.Log2(float64(prec))))
	if maxSteps < 40 {
		maxSteps = 40
	}
	tol := ap.MustParse(fmt.Sprintf("1e-%d", ap.BitsToDigits(prec)), prec)

	x := x0.Clone()
	for i := 1; i <= maxSteps; i++ {
		val, der, err := ap.Differentiate(f, x, prec)
		if err != nil {
			return nil, i, err
		}
		if der.IsZero() {
			return nil, i, fmt.Errorf("derivative vanished at %s", x.StringScientific(10))
		}
		step := ap.DivReal(val, der)
		next := ap.SubReal(x, step)
		if ap.AbsReal(step).Cmp(tol) <= 0 {
			return next, i, nil
		}
		x = next
	}
	return nil, maxSteps, fmt.Errorf("no convergence after %d steps from %s", maxSteps, x0.StringScientific(10))
}
