// Package metrics samples runtime performance data into bounded
// windows and raises alerts when configured thresholds are crossed.
//
// Frame time is recorded on every rendered frame, because frame time is
// itself the thing being measured. Everything else (memory, draw calls,
// triangles, GPU and network proxies) is sampled on a slower tick
// derived from accumulated delta time, so collection overhead stays
// bounded and the collector never advances faster than the host
// simulation.
package metrics

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/sayantanmandal1/EarnToDie-sub005/ring"
)

// SceneStats carries the per-frame counters the rendering collaborator
// exposes to the collector.
type SceneStats struct {
	DrawCalls        float64
	Triangles        float64
	GPUUsage         float64 // 0-100 proxy reported by the renderer
	NetworkLatencyMs float64
	NetworkKBps      float64
}

// SceneStatsProvider is implemented by the rendering/scene collaborator.
type SceneStatsProvider interface {
	SceneStats() SceneStats
}

// Config controls sampling cadence, window sizes, and alert thresholds.
type Config struct {
	WindowSize     int     // samples retained per series
	SampleInterval float64 // seconds between slow-tick samples
	AlertWindow    float64 // seconds a duplicate alert type is suppressed
	HistorySize    int     // alerts retained for inspection

	// Thresholds. A zero value disables the corresponding alert.
	LowFPS        float64
	HighFrameMs   float64
	HighMemoryMB  float64
	HighDrawCalls float64

	// GCDropMB is the heap drop between consecutive samples interpreted
	// as a collection event. Heuristic only: a scene unload produces the
	// same signature and is not distinguished.
	GCDropMB float64

	// EnablePrometheus exposes the sampled values on a Prometheus
	// registry refreshed on the sampling tick.
	EnablePrometheus bool
}

// DefaultConfig returns the collector defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize:     300,
		SampleInterval: 1.0,
		AlertWindow:    5.0,
		HistorySize:    64,
		LowFPS:         30,
		HighFrameMs:    33.3,
		HighMemoryMB:   512,
		HighDrawCalls:  1000,
		GCDropMB:       50,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowSize <= 0 {
		c.WindowSize = d.WindowSize
	}
	if c.SampleInterval <= 0 {
		c.SampleInterval = d.SampleInterval
	}
	if c.AlertWindow <= 0 {
		c.AlertWindow = d.AlertWindow
	}
	if c.HistorySize <= 0 {
		c.HistorySize = d.HistorySize
	}
	return c
}

// Snapshot is a point-in-time view across every metric series.
type Snapshot struct {
	SimTime          float64
	FPS              float64
	FrameTime        Stat // milliseconds
	MemoryMB         Stat
	DrawCalls        Stat
	Triangles        Stat
	GPUUsage         Stat
	NetworkLatencyMs Stat
	NetworkKBps      Stat
	Goroutines       int
	GCEvents         uint64
	Alerts           uint64
}

// Collector owns the metric series and the alerting state. It is
// single-threaded and frame-driven: the host calls RecordFrame and
// Update from its loop.
type Collector struct {
	cfg     Config
	running bool
	simTime float64
	accum   float64

	frameTime    *Series
	memory       *Series
	drawCalls    *Series
	triangles    *Series
	gpuUsage     *Series
	netLatency   *Series
	netBandwidth *Series

	goroutines int
	gcEvents   uint64
	lastHeapMB float64
	haveHeap   bool

	scene     SceneStatsProvider
	memSource func() float64

	lastAlertAt map[AlertType]float64
	alertCount  uint64
	history     *ring.Buffer[Alert]
	onAlert     []func(Alert)
	onSample    []func(Snapshot)

	prom *promExporter
	log  *slog.Logger
}

// NewCollector creates a started collector.
func NewCollector(cfg Config) (*Collector, error) {
	cfg = cfg.withDefaults()

	c := &Collector{
		cfg:         cfg,
		running:     true,
		memSource:   heapUsedMB,
		lastAlertAt: make(map[AlertType]float64),
		log:         slog.Default().With("component", "metrics_collector"),
	}

	var err error
	series := []**Series{
		&c.frameTime, &c.memory, &c.drawCalls, &c.triangles,
		&c.gpuUsage, &c.netLatency, &c.netBandwidth,
	}
	for _, s := range series {
		if *s, err = NewSeries(cfg.WindowSize); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}

	if c.history, err = ring.New[Alert](cfg.HistorySize); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	if cfg.EnablePrometheus {
		c.prom = newPromExporter()
	}

	return c, nil
}

// SetSceneStatsProvider wires the rendering collaborator in.
func (c *Collector) SetSceneStatsProvider(p SceneStatsProvider) {
	c.scene = p
}

// SetMemorySource overrides where heap usage (in MB) is read from.
// The default reads runtime.MemStats.
func (c *Collector) SetMemorySource(fn func() float64) {
	if fn != nil {
		c.memSource = fn
	}
}

// OnAlert appends an observer called synchronously for every emitted
// alert, in registration order.
func (c *Collector) OnAlert(fn func(Alert)) {
	c.onAlert = append(c.onAlert, fn)
}

// OnSample appends an observer called after every slow-tick sample with
// the fresh snapshot. The quality engine hangs off this hook.
func (c *Collector) OnSample(fn func(Snapshot)) {
	c.onSample = append(c.onSample, fn)
}

// RecordFrame records one rendered frame's delta time, in seconds.
// Called every frame, independent of the slow tick.
func (c *Collector) RecordFrame(dt float64) {
	if !c.running || dt <= 0 {
		return
	}
	c.frameTime.Push(dt * 1000)
}

// Update advances the collector by dt seconds of simulation time and
// runs at most one slow-tick sample. A long frame never triggers a
// catch-up burst of samples.
func (c *Collector) Update(dt float64) {
	if !c.running || dt <= 0 {
		return
	}

	c.simTime += dt
	c.accum += dt
	if c.accum < c.cfg.SampleInterval {
		return
	}
	c.accum = 0
	c.sample()
}

// sample reads all slow-tick sources and evaluates alert thresholds.
func (c *Collector) sample() {
	memMB := c.memSource()
	c.memory.Push(memMB)

	// Collection-event heuristic: a sudden heap drop bigger than the
	// configured threshold between consecutive samples. Advisory only.
	if c.haveHeap && c.cfg.GCDropMB > 0 && c.lastHeapMB-memMB > c.cfg.GCDropMB {
		c.gcEvents++
		if c.prom != nil {
			c.prom.gcEvents.Inc()
		}
		c.emit(AlertGCPause, SeverityInfo,
			fmt.Sprintf("suspected collection pause: heap dropped %.1f MB", c.lastHeapMB-memMB),
			c.lastHeapMB-memMB, c.cfg.GCDropMB)
	}
	c.lastHeapMB = memMB
	c.haveHeap = true

	c.goroutines = runtime.NumGoroutine()

	if c.scene != nil {
		st := c.scene.SceneStats()
		c.drawCalls.Push(st.DrawCalls)
		c.triangles.Push(st.Triangles)
		c.gpuUsage.Push(st.GPUUsage)
		c.netLatency.Push(st.NetworkLatencyMs)
		c.netBandwidth.Push(st.NetworkKBps)
	}

	c.checkThresholds(memMB)

	snap := c.Snapshot()
	if c.prom != nil {
		c.prom.update(snap)
	}
	for _, fn := range c.onSample {
		fn(snap)
	}
}

func (c *Collector) checkThresholds(memMB float64) {
	fps := c.FPS()
	if c.cfg.LowFPS > 0 && fps > 0 && fps < c.cfg.LowFPS {
		c.emit(AlertLowFPS, SeverityCritical,
			fmt.Sprintf("average frame rate %.1f below %.1f", fps, c.cfg.LowFPS),
			fps, c.cfg.LowFPS)
	}

	avgFrameMs := c.frameTime.Average()
	if c.cfg.HighFrameMs > 0 && avgFrameMs > c.cfg.HighFrameMs {
		c.emit(AlertHighFrameTime, SeverityWarning,
			fmt.Sprintf("average frame time %.1f ms above %.1f ms", avgFrameMs, c.cfg.HighFrameMs),
			avgFrameMs, c.cfg.HighFrameMs)
	}

	if c.cfg.HighMemoryMB > 0 && memMB > c.cfg.HighMemoryMB {
		c.emit(AlertHighMemory, SeverityWarning,
			fmt.Sprintf("memory usage %.1f MB above %.1f MB", memMB, c.cfg.HighMemoryMB),
			memMB, c.cfg.HighMemoryMB)
	}

	if dc := c.drawCalls.Current(); c.cfg.HighDrawCalls > 0 && dc > c.cfg.HighDrawCalls {
		c.emit(AlertHighDrawCalls, SeverityWarning,
			fmt.Sprintf("draw calls %.0f above %.0f", dc, c.cfg.HighDrawCalls),
			dc, c.cfg.HighDrawCalls)
	}
}

// Emit raises an alert on behalf of another component (the quality
// engine records its tier changes this way). Deduplication per alert
// type applies the same as for threshold alerts.
func (c *Collector) Emit(t AlertType, sev Severity, msg string, value, threshold float64) {
	c.emit(t, sev, msg, value, threshold)
}

func (c *Collector) emit(t AlertType, sev Severity, msg string, value, threshold float64) {
	if last, ok := c.lastAlertAt[t]; ok && c.simTime-last < c.cfg.AlertWindow {
		return
	}
	c.lastAlertAt[t] = c.simTime

	alert := newAlert(t, sev, msg, value, threshold, c.simTime)
	c.alertCount++
	c.history.Push(alert)
	if c.prom != nil {
		c.prom.alerts.Inc()
	}

	c.log.Warn("performance alert",
		"type", string(t), "severity", string(sev), "message", msg)

	for _, fn := range c.onAlert {
		fn(alert)
	}
}

// FPS derives the frame rate from the average frame time, 0 when no
// frames have been recorded yet.
func (c *Collector) FPS() float64 {
	avg := c.frameTime.Average()
	if avg <= 0 {
		return 0
	}
	return 1000 / avg
}

// Snapshot returns the current view across every series.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		SimTime:          c.simTime,
		FPS:              c.FPS(),
		FrameTime:        c.frameTime.Stats(),
		MemoryMB:         c.memory.Stats(),
		DrawCalls:        c.drawCalls.Stats(),
		Triangles:        c.triangles.Stats(),
		GPUUsage:         c.gpuUsage.Stats(),
		NetworkLatencyMs: c.netLatency.Stats(),
		NetworkKBps:      c.netBandwidth.Stats(),
		Goroutines:       c.goroutines,
		GCEvents:         c.gcEvents,
		Alerts:           c.alertCount,
	}
}

// Alerts returns the retained alert history, oldest first.
func (c *Collector) Alerts() []Alert {
	out := make([]Alert, 0, c.history.Len())
	c.history.Do(func(a Alert) { out = append(out, a) })
	return out
}

// GCEvents returns the count of suspected collection events.
func (c *Collector) GCEvents() uint64 {
	return c.gcEvents
}

// SimTime returns the accumulated simulation time in seconds.
func (c *Collector) SimTime() float64 {
	return c.simTime
}

// Running reports whether the collector is sampling.
func (c *Collector) Running() bool {
	return c.running
}

// Stop halts sampling. Series contents and registrations elsewhere in
// the subsystem are left intact; stopping is not a teardown.
func (c *Collector) Stop() {
	c.running = false
}

// Start resumes sampling after Stop.
func (c *Collector) Start() {
	c.running = true
}

func heapUsedMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / (1024 * 1024)
}
