// Package meanfield solves the Weiss mean-field equation for the reduced
// magnetization m at reduced temperature t = T/Tc:
//
//	m = tanh(m / t)
//
// Above t = 1 only m = 0 solves it. Below, a non-trivial root in (0, 1]
// appears and tends to 1 as t -> 0+.
package meanfield

import (
	"errors"
	"fmt"
	"math"
)

// CriticalTemperature is the reduced Curie temperature.
const CriticalTemperature = 1.0

var (
	// ErrBadBracket indicates f(a) and f(b) share a strict sign.
	ErrBadBracket = errors.New("meanfield: interval does not bracket a root")

	// ErrTolerance indicates a non-positive tolerance.
	ErrTolerance = errors.New("meanfield: tolerance must be positive")
)

// Equation is a function of the unknown m parameterised by temperature t.
type Equation func(m, t float64) float64

// Point is one sample of the magnetization curve.
type Point struct {
	T float64 `json:"t"`
	M float64 `json:"m"`
}

// SelfConsistency returns tanh(m/t) - m. It is undefined at t == 0.
func SelfConsistency(m, t float64) float64 {
	return math.Tanh(m/t) - m
}

// Bisect locates a root of f(., t) in [a, b] by repeated halving until the
// half-width is at most eps, returning the midpoint of the last bracket. It
// returns ErrBadBracket when f(a, t) and f(b, t) are both non-zero with the
// same sign.
func Bisect(f Equation, t, a, b, eps float64) (float64, error) {
	if eps <= 0 {
		return 0, fmt.Errorf("%w: got %g", ErrTolerance, eps)
	}
	fa, fb := f(a, t), f(b, t)
	if fa*fb > 0 {
		return 0, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g at t=%g", ErrBadBracket, a, fa, b, fb, t)
	}

	for (b-a)/2 > eps {
		mid := (a + b) / 2
		fm := f(mid, t)
		if fm == 0 {
			return mid, nil
		}
		if fa*fm < 0 {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}
	return (a + b) / 2, nil
}

// Solver samples the magnetization curve.
type Solver struct {
	Lower     float64 `yaml:"lower" json:"lower"`
	Upper     float64 `yaml:"upper" json:"upper"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
	Points    int     `yaml:"points" json:"points"`
}

// DefaultSolver brackets the root in [0.001, 1] to 1e-6 over 500 points.
func DefaultSolver() Solver {
	return Solver{
		Lower:     0.001,
		Upper:     1.0,
		Tolerance: 1e-6,
		Points:    500,
	}
}

// Curve samples t uniformly from t1 to t2 inclusive with the default solver.
func Curve(t1, t2 float64) []Point {
	return DefaultSolver().Curve(t1, t2)
}

// Curve returns s.Points samples (t, m) with t stepping from t1 to t2
// inclusive. For t > 1, m is 0. For t <= 1, m is the bisection root of
// SelfConsistency in [s.Lower, s.Upper]; where that interval holds no sign
// change (t at or just below 1, or t < 0) only the trivial solution is
// available and m is reported as 0.
func (s Solver) Curve(t1, t2 float64) []Point {
	n := s.Points
	if n < 2 {
		n = 2
	}
	points := make([]Point, n)
	for i := range points {
		t := t1 + float64(i)*(t2-t1)/float64(n-1)
		points[i] = Point{T: t, M: s.Magnetization(t)}
	}
	return points
}

// Magnetization returns the spontaneous magnetization at t.
func (s Solver) Magnetization(t float64) float64 {
	if t > CriticalTemperature {
		return 0
	}
	m, err := Bisect(SelfConsistency, t, s.Lower, s.Upper, s.Tolerance)
	if err != nil {
		return 0
	}
	return m
}
