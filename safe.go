package apdual

import (
	"sync"
	"unsafe"
)

// Safe wraps a *Real with a mutex so multiple goroutines can operate on it safely.
// All operations return NEW Safe results; the wrapped value is never mutated externally.
//
// The dual-number layer itself needs no locking (every operation allocates its
// results and the working precision is a per-value property, not process
// state); Safe is for hosts that share one Real across goroutines, e.g. a
// common evaluation point or tolerance.
type Safe struct {
	mu sync.RWMutex
	r  *Real
}

// NewSafe allocates a new Safe real with the given precision in bits.
func NewSafe(bits uint) *Safe { return &Safe{r: New(bits)} }

// WrapSafe wraps an existing *Real. After wrapping, do NOT use the raw *Real concurrently.
func WrapSafe(r *Real) *Safe { return &Safe{r: r} }

// Close releases resources of the underlying Real.
func (s *Safe) Close() { s.mu.Lock(); s.r.Close(); s.mu.Unlock() }

// Prec reads the precision (bits).
func (s *Safe) Prec() uint { s.mu.RLock(); p := s.r.prec; s.mu.RUnlock(); return p }

// SetPrec updates precision (rounding value).
func (s *Safe) SetPrec(bits uint) { s.mu.Lock(); s.r.SetPrec(bits); s.mu.Unlock() }

// String/format helpers (read-only)
func (s *Safe) StringFixed(d int) string {
	s.mu.RLock()
	out := s.r.StringFixed(d)
	s.mu.RUnlock()
	return out
}
func (s *Safe) StringScientific(d int) string {
	s.mu.RLock()
	out := s.r.StringScientific(d)
	s.mu.RUnlock()
	return out
}
func (s *Safe) Float64() float64 {
	s.mu.RLock()
	out := s.r.Float64()
	s.mu.RUnlock()
	return out
}
func (s *Safe) Sign() int {
	s.mu.RLock()
	out := s.r.Sign()
	s.mu.RUnlock()
	return out
}

// Unsafe returns the underlying *Real. Use with care (no internal locking).
func (s *Safe) Unsafe() *Real { return s.r }

// lockPairR acquires read locks on a and b in a stable address order to avoid deadlocks.
func lockPairR(a, b *Safe) (unlock func()) {
	if a == b {
		a.mu.RLock()
		return func() { a.mu.RUnlock() }
	}
	ap := uintptr(unsafe.Pointer(a))
	bp := uintptr(unsafe.Pointer(b))
	if ap < bp {
		a.mu.RLock()
		b.mu.RLock()
		return func() { b.mu.RUnlock(); a.mu.RUnlock() }
	}
	b.mu.RLock()
	a.mu.RLock()
	return func() { a.mu.RUnlock(); b.mu.RUnlock() }
}

// --- Non-mutating arithmetic: each returns a NEW Safe result ---

func (a *Safe) Neg() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Neg(a.r)
	a.mu.RUnlock()
	return res
}

func (a *Safe) Abs() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Abs(a.r)
	a.mu.RUnlock()
	return res
}

func (a *Safe) Inv() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Inv(a.r)
	a.mu.RUnlock()
	return res
}

func (a *Safe) Add(b *Safe) *Safe {
	unlock := lockPairR(a, b)
	defer unlock()
	res := NewSafe(maxPrec(a.r, b.r))
	res.r.Add(a.r, b.r)
	return res
}

func (a *Safe) Sub(b *Safe) *Safe {
	unlock := lockPairR(a, b)
	defer unlock()
	res := NewSafe(maxPrec(a.r, b.r))
	res.r.Sub(a.r, b.r)
	return res
}

func (a *Safe) Mul(b *Safe) *Safe {
	unlock := lockPairR(a, b)
	defer unlock()
	res := NewSafe(maxPrec(a.r, b.r))
	res.r.Mul(a.r, b.r)
	return res
}

func (a *Safe) Div(b *Safe) *Safe {
	unlock := lockPairR(a, b)
	defer unlock()
	res := NewSafe(maxPrec(a.r, b.r))
	res.r.Div(a.r, b.r)
	return res
}

func (a *Safe) Pow(b *Safe) *Safe {
	unlock := lockPairR(a, b)
	defer unlock()
	res := NewSafe(maxPrec(a.r, b.r))
	res.r.Pow(a.r, b.r)
	return res
}

func (a *Safe) Cmp(b *Safe) int {
	unlock := lockPairR(a, b)
	defer unlock()
	return a.r.Cmp(b.r)
}

// Elementary / transcendental (read one, produce new)
func (a *Safe) Sqrt() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Sqrt(a.r)
	a.mu.RUnlock()
	return res
}
func (a *Safe) Exp() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Exp(a.r)
	a.mu.RUnlock()
	return res
}
func (a *Safe) Log() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Log(a.r)
	a.mu.RUnlock()
	return res
}
func (a *Safe) Sin() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Sin(a.r)
	a.mu.RUnlock()
	return res
}
func (a *Safe) Cos() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Cos(a.r)
	a.mu.RUnlock()
	return res
}
func (a *Safe) Tan() *Safe {
	a.mu.RLock()
	res := NewSafe(a.r.prec)
	res.r.Tan(a.r)
	a.mu.RUnlock()
	return res
}

// Constructors from strings
func ParseSafe(s string, prec uint) (*Safe, error) {
	r, err := Parse(s, prec)
	if err != nil {
		return nil, err
	}
	return WrapSafe(r), nil
}

func MustParseSafe(s string, prec uint) *Safe {
	return WrapSafe(MustParse(s, prec))
}
