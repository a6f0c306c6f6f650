package profile

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

const iqrMultiplier = 1.5

// profileNumeric computes summary statistics, distribution shape, and IQR
// outliers for a numeric column's non-null values.
func profileNumeric(values []float64) (*NumericStats, *DistributionStats, *OutlierStats) {
	if len(values) == 0 {
		return &NumericStats{}, &DistributionStats{}, nil
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	q25 := quantile(sorted, 0.25)
	q75 := quantile(sorted, 0.75)

	summary := &NumericStats{
		Mean:   round4p(mean),
		Median: round4p(median),
		Min:    round4p(min),
		Max:    round4p(max),
		Q25:    round4p(q25),
		Q75:    round4p(q75),
	}
	// Sample standard deviation needs at least 2 values
	if len(values) > 1 {
		std, _ := stats.StandardDeviationSample(values)
		summary.Std = round4p(std)
	}

	dist := &DistributionStats{}
	for _, x := range values {
		switch {
		case x == 0:
			dist.Zeros++
		case x < 0:
			dist.Negatives++
		default:
			dist.Positives++
		}
	}
	if len(values) > 2 {
		dist.Skewness = round4p(sampleSkewness(values, mean))
	}
	if len(values) > 3 {
		dist.Kurtosis = round4p(sampleKurtosis(values, mean))
	}

	var outliers *OutlierStats
	if len(values) > 4 {
		iqr := q75 - q25
		lower := q25 - iqrMultiplier*iqr
		upper := q75 + iqrMultiplier*iqr
		count := 0
		for _, x := range values {
			if x < lower || x > upper {
				count++
			}
		}
		outliers = &OutlierStats{
			Count:      count,
			Percentage: round2(float64(count) / float64(len(values)) * 100),
		}
	}

	return summary, dist, outliers
}

// quantile computes the p-quantile (p in [0,1]) of already-sorted values by
// linear interpolation between order statistics. This matches the
// numpy/pandas default; rank-based methods give different quartiles on
// small samples and shift the IQR fences with them.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// sampleSkewness computes the adjusted Fisher-Pearson coefficient
func sampleSkewness(values []float64, mean float64) float64 {
	n := float64(len(values))
	stdDev, _ := stats.StandardDeviation(values)
	if stdDev == 0 {
		return 0
	}

	sumCubedDeviations := 0.0
	for _, x := range values {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skewness * correction
}

// sampleKurtosis computes bias-corrected excess kurtosis
func sampleKurtosis(values []float64, mean float64) float64 {
	n := float64(len(values))
	stdDev, _ := stats.StandardDeviation(values)
	if stdDev == 0 {
		return 0
	}

	sumFourthDeviations := 0.0
	for _, x := range values {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}

	g2 := sumFourthDeviations/n - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}
