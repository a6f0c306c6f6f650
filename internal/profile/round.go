package profile

import "math"

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// round4p rounds and boxes a statistic, dropping non-finite results so they
// never reach JSON serialization.
func round4p(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	r := round4(x)
	return &r
}
