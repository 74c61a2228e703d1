// Package floatutils provides utilities for working with floats
package floatutils

import "math"

// Clip clips value to [min, max]. NaN values are returned unchanged.
func Clip(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return value
	}
	return math.Max(math.Min(value, max), min)
}
