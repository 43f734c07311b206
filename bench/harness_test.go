package bench_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayantanmandal1/EarnToDie-sub005/bench"
)

func TestReduce(t *testing.T) {
	s := bench.Reduce([]float64{10, 20, 30, 40})

	assert.InDelta(t, 25.0, s.Average, 0.001)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 40.0, s.Max)
	assert.InDelta(t, 25.0, s.Median, 0.001)
	assert.Equal(t, 40.0, s.P95)
	assert.Equal(t, 40.0, s.P99)
	assert.InDelta(t, 11.1803, s.StdDev, 0.001)
}

func TestReduceEmpty(t *testing.T) {
	assert.Equal(t, bench.Summary{}, bench.Reduce(nil))
}

func TestReduceSingle(t *testing.T) {
	s := bench.Reduce([]float64{7})
	assert.Equal(t, 7.0, s.Average)
	assert.Equal(t, 7.0, s.Median)
	assert.Equal(t, 7.0, s.P99)
	assert.Equal(t, 100.0, s.Stability)
}

func TestStabilitySteadySamples(t *testing.T) {
	s := bench.Reduce([]float64{5, 5, 5, 5, 5})
	assert.Equal(t, 100.0, s.Stability)
	assert.Zero(t, s.StdDev)
}

func TestStabilityClampedAtZero(t *testing.T) {
	// Wildly varying samples: cv > 1 clamps to 0 instead of going
	// negative.
	s := bench.Reduce([]float64{0.001, 0.001, 0.001, 1000})
	assert.Equal(t, 0.0, s.Stability)
}

func TestHarnessRunsSequentially(t *testing.T) {
	h := bench.NewHarness()

	var order []string
	mk := func(name string) bench.Procedure {
		return bench.Procedure{
			Name:     name,
			Duration: 50 * time.Millisecond,
			Run: func(ctx context.Context, rec *bench.Recorder) error {
				order = append(order, name)
				rec.Record(1)
				rec.Record(1)
				return nil
			},
		}
	}
	h.Add(mk("first"))
	h.Add(mk("second"))
	h.Add(mk("third"))
	require.Equal(t, 3, h.Len())

	report := h.Run(context.Background())
	assert.Equal(t, []string{"first", "second", "third"}, order)
	require.Len(t, report.Results, 3)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 100.0, report.Score)
	assert.Empty(t, report.Recommendations)
}

func TestFailureIsolation(t *testing.T) {
	h := bench.NewHarness()

	boom := errors.New("boom")
	h.Add(bench.Procedure{
		Name:     "failing",
		Duration: 10 * time.Millisecond,
		Run: func(ctx context.Context, rec *bench.Recorder) error {
			return boom
		},
	})
	h.Add(bench.Procedure{
		Name:     "healthy",
		Duration: 10 * time.Millisecond,
		Run: func(ctx context.Context, rec *bench.Recorder) error {
			rec.Record(2)
			rec.Record(2)
			return nil
		},
	})

	report := h.Run(context.Background())
	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Failed())
	assert.ErrorIs(t, report.Results[0].Err, boom)
	assert.False(t, report.Results[1].Failed())
	assert.Equal(t, 2, report.Results[1].Samples)
	assert.Equal(t, 80.0, report.Score) // 100 average minus one failure
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "failing")
}

func TestPanicIsCaptured(t *testing.T) {
	h := bench.NewHarness()
	h.Add(bench.Procedure{
		Name:     "panicky",
		Duration: 10 * time.Millisecond,
		Run: func(ctx context.Context, rec *bench.Recorder) error {
			panic("kaboom")
		},
	})
	h.Add(bench.Procedure{
		Name:     "after",
		Duration: 10 * time.Millisecond,
		Run: func(ctx context.Context, rec *bench.Recorder) error {
			rec.Record(1)
			return nil
		},
	})

	report := h.Run(context.Background())
	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Failed())
	assert.Contains(t, report.Results[0].Err.Error(), "kaboom")
	assert.False(t, report.Results[1].Failed())
}

func TestDeadlineIsNotAFailure(t *testing.T) {
	h := bench.NewHarness()
	h.Add(bench.Procedure{
		Name:     "bounded",
		Duration: 20 * time.Millisecond,
		Run: func(ctx context.Context, rec *bench.Recorder) error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
					rec.Record(1)
				}
			}
		},
	})

	report := h.Run(context.Background())
	require.Len(t, report.Results, 1)
	assert.False(t, report.Results[0].Failed())
	assert.Greater(t, report.Results[0].Samples, 0)
}

func TestParentCancellationIsAFailure(t *testing.T) {
	h := bench.NewHarness()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.Add(bench.Procedure{
		Name:     "interrupted",
		Duration: time.Second,
		Run: func(runCtx context.Context, rec *bench.Recorder) error {
			rec.Record(1)
			// Cancellation from outside, not the run deadline: the
			// measurement window never completed.
			cancel()
			<-runCtx.Done()
			return runCtx.Err()
		},
	})

	report := h.Run(ctx)
	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Failed())
	assert.ErrorIs(t, report.Results[0].Err, context.Canceled)
}

func TestMissingRunFunc(t *testing.T) {
	h := bench.NewHarness()
	h.Add(bench.Procedure{Name: "empty"})

	report := h.Run(context.Background())
	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Failed())
}

func TestCancelledContextStopsRun(t *testing.T) {
	h := bench.NewHarness()
	ran := 0
	h.Add(bench.Procedure{
		Name:     "only",
		Duration: 10 * time.Millisecond,
		Run: func(ctx context.Context, rec *bench.Recorder) error {
			ran++
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := h.Run(ctx)
	assert.Zero(t, ran)
	assert.Empty(t, report.Results)
}

func TestZeroSamplesRecommendation(t *testing.T) {
	h := bench.NewHarness()
	h.Add(bench.Procedure{
		Name:     "silent",
		Duration: 10 * time.Millisecond,
		Run: func(ctx context.Context, rec *bench.Recorder) error {
			return nil
		},
	})

	report := h.Run(context.Background())
	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "no samples")
}
