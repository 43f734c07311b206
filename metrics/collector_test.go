package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayantanmandal1/EarnToDie-sub005/metrics"
)

type fakeScene struct {
	stats metrics.SceneStats
}

func (f *fakeScene) SceneStats() metrics.SceneStats { return f.stats }

func newTestCollector(t *testing.T, cfg metrics.Config) *metrics.Collector {
	t.Helper()
	c, err := metrics.NewCollector(cfg)
	require.NoError(t, err)
	return c
}

// advance runs n simulated frames of dt seconds each.
func advance(c *metrics.Collector, n int, dt float64) {
	for range n {
		c.RecordFrame(dt)
		c.Update(dt)
	}
}

func TestFrameAveraging(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1000})

	c.RecordFrame(0.016)
	c.RecordFrame(0.020)
	c.RecordFrame(0.012)

	snap := c.Snapshot()
	assert.InDelta(t, 16.0, snap.FrameTime.Average, 0.001)
	assert.InDelta(t, 12.0, snap.FrameTime.Min, 0.001)
	assert.InDelta(t, 20.0, snap.FrameTime.Max, 0.001)
	assert.Equal(t, 3, snap.FrameTime.Count)
	assert.InDelta(t, 62.5, snap.FPS, 0.01)
}

func TestNoFramesMeansZeroFPS(t *testing.T) {
	c := newTestCollector(t, metrics.Config{})
	assert.Zero(t, c.FPS())
}

func TestWindowEviction(t *testing.T) {
	c := newTestCollector(t, metrics.Config{WindowSize: 4, SampleInterval: 1000})

	c.RecordFrame(1.0) // 1000 ms outlier
	for range 4 {
		c.RecordFrame(0.010)
	}

	snap := c.Snapshot()
	assert.Equal(t, 4, snap.FrameTime.Count)
	assert.InDelta(t, 10.0, snap.FrameTime.Average, 0.001)
}

func TestSampleIntervalThrottling(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1.0})
	c.SetMemorySource(func() float64 { return 100 })

	var samples int
	c.OnSample(func(metrics.Snapshot) { samples++ })

	advance(c, 30, 1.0/60) // half a second
	assert.Zero(t, samples)

	advance(c, 31, 1.0/60) // crosses one second
	assert.Equal(t, 1, samples)
}

func TestLongFrameSingleSample(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1.0})
	c.SetMemorySource(func() float64 { return 100 })

	var samples int
	c.OnSample(func(metrics.Snapshot) { samples++ })

	// A five-second stall produces one sample, not five.
	c.Update(5.0)
	assert.Equal(t, 1, samples)
}

func TestLowFPSAlert(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1.0, LowFPS: 30})
	c.SetMemorySource(func() float64 { return 100 })

	var alerts []metrics.Alert
	c.OnAlert(func(a metrics.Alert) { alerts = append(alerts, a) })

	advance(c, 15, 0.1) // 10 FPS for 1.5s
	require.NotEmpty(t, alerts)
	assert.Equal(t, metrics.AlertLowFPS, alerts[0].Type)
	assert.Equal(t, metrics.SeverityCritical, alerts[0].Severity)
	assert.InDelta(t, 10.0, alerts[0].Value, 0.1)
}

func TestAlertDeduplicationWindow(t *testing.T) {
	c := newTestCollector(t, metrics.Config{
		SampleInterval: 1.0,
		AlertWindow:    5.0,
		LowFPS:         30,
	})
	c.SetMemorySource(func() float64 { return 100 })

	var lowFPS int
	c.OnAlert(func(a metrics.Alert) {
		if a.Type == metrics.AlertLowFPS {
			lowFPS++
		}
	})

	// Sustained 2 FPS across 12 seconds of sim time: the condition
	// holds at every sample but the window admits one alert per 5s.
	advance(c, 24, 0.5)
	assert.Equal(t, 3, lowFPS)
}

func TestHighMemoryAlert(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1.0, HighMemoryMB: 512})
	c.SetMemorySource(func() float64 { return 600 })

	var alerts []metrics.Alert
	c.OnAlert(func(a metrics.Alert) { alerts = append(alerts, a) })

	advance(c, 61, 1.0/60)
	require.NotEmpty(t, alerts)
	assert.Equal(t, metrics.AlertHighMemory, alerts[0].Type)
}

func TestGCHeuristic(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1.0, GCDropMB: 50})

	mem := 300.0
	c.SetMemorySource(func() float64 { return mem })

	advance(c, 61, 1.0/60) // first sample establishes the baseline
	require.Zero(t, c.GCEvents())

	mem = 200 // 100 MB drop
	advance(c, 61, 1.0/60)
	assert.Equal(t, uint64(1), c.GCEvents())

	var seen bool
	for _, a := range c.Alerts() {
		if a.Type == metrics.AlertGCPause {
			seen = true
			assert.Equal(t, metrics.SeverityInfo, a.Severity)
		}
	}
	assert.True(t, seen)
}

func TestSmallDropIsNotGC(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1.0, GCDropMB: 50})

	mem := 300.0
	c.SetMemorySource(func() float64 { return mem })

	advance(c, 61, 1.0/60)
	mem = 280 // 20 MB drop, below the threshold
	advance(c, 61, 1.0/60)
	assert.Zero(t, c.GCEvents())
}

func TestSceneStatsFlow(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1.0, HighDrawCalls: 1000})
	c.SetMemorySource(func() float64 { return 100 })

	scene := &fakeScene{stats: metrics.SceneStats{
		DrawCalls: 1500,
		Triangles: 2_000_000,
		GPUUsage:  0.8,
	}}
	c.SetSceneStatsProvider(scene)

	advance(c, 61, 1.0/60)

	snap := c.Snapshot()
	assert.InDelta(t, 1500, snap.DrawCalls.Current, 0.001)
	assert.InDelta(t, 0.8, snap.GPUUsage.Current, 0.001)

	var seen bool
	for _, a := range c.Alerts() {
		if a.Type == metrics.AlertHighDrawCalls {
			seen = true
		}
	}
	assert.True(t, seen)
}

func TestEmitHistoryBound(t *testing.T) {
	c := newTestCollector(t, metrics.Config{HistorySize: 4, AlertWindow: 0.001})

	for i := range 10 {
		c.Update(1.0)
		c.Emit(metrics.AlertQualityChange, metrics.SeverityInfo, "change", float64(i), 0)
	}

	history := c.Alerts()
	assert.Len(t, history, 4)
	assert.InDelta(t, 9.0, history[3].Value, 0.001)
	assert.Equal(t, uint64(10), c.Snapshot().Alerts)
}

func TestStopPausesCollection(t *testing.T) {
	c := newTestCollector(t, metrics.Config{SampleInterval: 1.0})
	c.SetMemorySource(func() float64 { return 100 })

	c.Stop()
	require.False(t, c.Running())
	advance(c, 120, 1.0/60)
	assert.Zero(t, c.SimTime())
	assert.Zero(t, c.Snapshot().FrameTime.Count)

	c.Start()
	advance(c, 6, 1.0/60)
	assert.Greater(t, c.SimTime(), 0.0)
}

func TestPrometheusRegistry(t *testing.T) {
	c := newTestCollector(t, metrics.Config{EnablePrometheus: true})
	require.NotNil(t, c.Registry())

	plain := newTestCollector(t, metrics.Config{})
	assert.Nil(t, plain.Registry())
	plain.RecordQualityTier(2) // no-op when disabled
}
