package math

import (
	"math"
	"strconv"
)

// Epsilon is the machine epsilon for float64 values.
const Epsilon = 2.220446049250313e-16

// Format formats a float based on the given precision
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// RoundHalfUp rounds the given value to the closest integer, with halves rounding up.
func RoundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

// Clamp brings the value into the representable range of float64 values.
// NOTE : NaN values have no place in that range and are mapped to the lower bound
func Clamp(f float64) float64 {
	if math.IsNaN(f) {
		return -math.MaxFloat64
	}
	if f > math.MaxFloat64 {
		return math.MaxFloat64
	}
	if f < -math.MaxFloat64 {
		return -math.MaxFloat64
	}
	return f
}

// IsInteger returns true if the value has no fractional part.
func IsInteger(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < 1e15
}
