// ABOUTME: Bounds clamping and percentage helpers for bar geometry
// ABOUTME: Integer results round half up; float results are exact

package mathutil

import "math"

// Number is any integer or floating point type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Cap limits value to the closed range [lo, hi].
func Cap[T Number](value, lo, hi T) T {
	return max(min(value, hi), lo)
}

// Percentage returns where value sits in [lo, hi] as 0..100.
// Integer results are rounded; a degenerate range yields 0.
func Percentage[T Number](value, lo, hi T) T {
	span := float64(hi) - float64(lo)
	if span == 0 {
		return 0
	}
	pct := (float64(value) - float64(lo)) / span * 100
	return fromFloat[T](Cap(pct, 0, 100))
}

// PercentageToValue maps pct (0..100) onto [0, maxValue].
func PercentageToValue[T Number](pct, maxValue T) T {
	v := float64(pct) * float64(maxValue) / 100
	return fromFloat[T](Cap(v, 0, float64(maxValue)))
}

func fromFloat[T Number](v float64) T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(v)
	}
	return T(math.Floor(v + 0.5))
}
