package metrics

import (
	"math"

	"github.com/sayantanmandal1/EarnToDie-sub005/ring"
)

// Series is a bounded, oldest-evicted window of samples for one metric.
// Aggregates are derived on demand rather than maintained per push.
type Series struct {
	window *ring.Buffer[float64]
}

// Stat is a point-in-time aggregate view of a Series.
type Stat struct {
	Current float64
	Average float64
	Min     float64
	Max     float64
	Count   int
}

// NewSeries creates a series keeping the last capacity samples.
func NewSeries(capacity int) (*Series, error) {
	w, err := ring.New[float64](capacity)
	if err != nil {
		return nil, err
	}
	return &Series{window: w}, nil
}

// Push records a sample, evicting the oldest when the window is full.
func (s *Series) Push(v float64) {
	s.window.Push(v)
}

// Len returns the number of retained samples.
func (s *Series) Len() int {
	return s.window.Len()
}

// Current returns the most recent sample, 0 when empty.
func (s *Series) Current() float64 {
	v, err := s.window.Newest()
	if err != nil {
		return 0
	}
	return v
}

// Average returns the mean over the window, 0 when empty.
func (s *Series) Average() float64 {
	n := s.window.Len()
	if n == 0 {
		return 0
	}
	sum := 0.0
	s.window.Do(func(v float64) { sum += v })
	return sum / float64(n)
}

// Stats returns current/average/min/max over the window in one pass.
func (s *Series) Stats() Stat {
	n := s.window.Len()
	if n == 0 {
		return Stat{}
	}

	sum := 0.0
	minV := math.Inf(1)
	maxV := math.Inf(-1)
	s.window.Do(func(v float64) {
		sum += v
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	})

	return Stat{
		Current: s.Current(),
		Average: sum / float64(n),
		Min:     minV,
		Max:     maxV,
		Count:   n,
	}
}

// Reset drops all samples.
func (s *Series) Reset() {
	s.window.Reset()
}
