package metrics

import (
	"math"

	"github.com/AI2HU/geolens/internal/shared"
)

// ratio returns count/total, or 0 when there is nothing to divide by
func ratio(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp(float64(count)/float64(total), 0, 1)
}

// percent returns count/total*100 clamped to [0, 100]
func percent(count, total int) float64 {
	return ratio(count, total) * 100
}

func mean(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return finite(sum / float64(n))
}

func clamp(v, lo, hi float64) float64 {
	v = finite(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func brandKey(name string) string {
	return shared.BrandKey(name)
}
