package scurve

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// epsilon is the tolerance used for scalar comparisons throughout the
// path maths.
const epsilon = 1e-9

func isZero(v float64) bool {
	return math.Abs(v) < epsilon
}

func isPositive(v float64) bool {
	return v >= epsilon
}

func isNegative(v float64) bool {
	return v <= -epsilon
}

func isEqual(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, epsilon)
}

func sq(v float64) float64 {
	return v * v
}

// safeSqrt returns 0 for negative inputs so marginal feasibility checks
// collapse to the degenerate solution instead of producing NaN.
func safeSqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}
