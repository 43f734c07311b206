package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// promExporter mirrors the sampled values onto a Prometheus registry.
// Gauges are refreshed on the sampling tick, never per frame.
type promExporter struct {
	registry *prometheus.Registry

	fps         prometheus.Gauge
	frameTimeMs prometheus.Gauge
	memoryMB    prometheus.Gauge
	drawCalls   prometheus.Gauge
	triangles   prometheus.Gauge
	gpuUsage    prometheus.Gauge
	goroutines  prometheus.Gauge
	qualityTier prometheus.Gauge

	gcEvents prometheus.Counter
	alerts   prometheus.Counter
}

func newPromExporter() *promExporter {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "earntodie",
			Subsystem: "perf",
			Name:      name,
			Help:      help,
		})
	}

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: "earntodie",
			Subsystem: "perf",
			Name:      name,
			Help:      help,
		})
	}

	return &promExporter{
		registry:    registry,
		fps:         gauge("fps", "Average frame rate over the sample window"),
		frameTimeMs: gauge("frame_time_ms", "Average frame time in milliseconds"),
		memoryMB:    gauge("memory_mb", "Heap usage in megabytes"),
		drawCalls:   gauge("draw_calls", "Draw calls reported by the renderer"),
		triangles:   gauge("triangles", "Triangles reported by the renderer"),
		gpuUsage:    gauge("gpu_usage", "GPU usage proxy (0-100)"),
		goroutines:  gauge("goroutines", "Goroutine count at sample time"),
		qualityTier: gauge("quality_tier", "Current global quality tier ordinal"),
		gcEvents:    counter("gc_events_total", "Suspected collection events (heuristic)"),
		alerts:      counter("alerts_total", "Performance alerts emitted"),
	}
}

func (p *promExporter) update(s Snapshot) {
	p.fps.Set(s.FPS)
	p.frameTimeMs.Set(s.FrameTime.Average)
	p.memoryMB.Set(s.MemoryMB.Current)
	p.drawCalls.Set(s.DrawCalls.Current)
	p.triangles.Set(s.Triangles.Current)
	p.gpuUsage.Set(s.GPUUsage.Current)
	p.goroutines.Set(float64(s.Goroutines))
}

// Registry returns the Prometheus registry, or nil when the export is
// disabled in the collector config.
func (c *Collector) Registry() *prometheus.Registry {
	if c.prom == nil {
		return nil
	}
	return c.prom.registry
}

// RecordQualityTier mirrors the current global quality tier ordinal
// onto the registry. No-op when the export is disabled.
func (c *Collector) RecordQualityTier(ordinal float64) {
	if c.prom != nil {
		c.prom.qualityTier.Set(ordinal)
	}
}
