package bench

import (
	"math"
	"sort"
)

// Summary is the statistical reduction of one procedure's raw samples.
type Summary struct {
	Average float64
	Min     float64
	Max     float64
	Median  float64
	P95     float64
	P99     float64
	StdDev  float64

	// Stability is a 0-100 score derived from the coefficient of
	// variation: 100 means perfectly steady samples.
	Stability float64
}

// Reduce computes the summary over samples. An empty slice yields the
// zero summary.
func Reduce(samples []float64) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	avg := sum / float64(n)

	variance := 0.0
	for _, v := range sorted {
		d := v - avg
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)

	return Summary{
		Average:   avg,
		Min:       sorted[0],
		Max:       sorted[n-1],
		Median:    median(sorted),
		P95:       percentile(sorted, 95),
		P99:       percentile(sorted, 99),
		StdDev:    stddev,
		Stability: stability(avg, stddev),
	}
}

// median of a sorted slice; even counts average the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile uses the nearest-rank method on a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

// stability maps the coefficient of variation onto 0-100.
func stability(avg, stddev float64) float64 {
	if avg == 0 {
		return 0
	}
	cv := stddev / math.Abs(avg)
	score := 100 * (1 - cv)
	return math.Max(0, math.Min(100, score))
}
