// Package perf wires the pools, the LOD selector, the texture reducer,
// the metrics collector and the quality engine into one frame-driven
// controller. The host game calls Update once per frame; everything
// else is plumbing between the subsystems.
package perf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sayantanmandal1/EarnToDie-sub005/bench"
	"github.com/sayantanmandal1/EarnToDie-sub005/config"
	"github.com/sayantanmandal1/EarnToDie-sub005/lod"
	"github.com/sayantanmandal1/EarnToDie-sub005/metrics"
	"github.com/sayantanmandal1/EarnToDie-sub005/pool"
	"github.com/sayantanmandal1/EarnToDie-sub005/quality"
	"github.com/sayantanmandal1/EarnToDie-sub005/texture"
)

// ErrNotInitialized is returned by operations invoked before New
// succeeded or after Close.
var ErrNotInitialized = errors.New("perf: controller not initialized")

// PerformanceStats is the combined view the host polls for overlays
// and debugging.
type PerformanceStats struct {
	Quality    quality.Tier
	Auto       bool
	Metrics    metrics.Snapshot
	Pools      map[string]pool.StatsSnapshot
	LODCounts  []int
	LODObjects int
	Texture    texture.CacheStats
}

// Controller is the integration facade over the performance
// subsystems. Like them it is single-threaded and frame-driven.
type Controller struct {
	cfg *config.Config

	registry  *pool.Registry
	selector  *lod.Selector
	reducer   *texture.Reducer
	collector *metrics.Collector
	engine    *quality.Engine

	initialized bool
	log         *slog.Logger
}

// New assembles a controller from cfg. A nil cfg uses the defaults.
// Construction failures are fatal; subsystem trouble after a
// successful New only ever degrades (warnings, skipped work).
func New(cfg *config.Config) (*Controller, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("perf: %w", err)
	}

	collector, err := metrics.NewCollector(metrics.Config{
		WindowSize:       cfg.Metrics.WindowSize,
		SampleInterval:   cfg.Metrics.SampleIntervalSeconds,
		AlertWindow:      cfg.Metrics.AlertWindowSeconds,
		HistorySize:      cfg.Metrics.HistorySize,
		LowFPS:           cfg.Metrics.LowFPS,
		HighFrameMs:      cfg.Metrics.HighFrameMs,
		HighMemoryMB:     cfg.Metrics.HighMemoryMB,
		HighDrawCalls:    cfg.Metrics.HighDrawCalls,
		GCDropMB:         cfg.Metrics.GCDropMB,
		EnablePrometheus: cfg.Metrics.EnablePrometheus,
	})
	if err != nil {
		return nil, fmt.Errorf("perf: metrics collector: %w", err)
	}

	// "auto" starts at the default rung with automatic adjustment on;
	// an explicit tier only picks the starting rung, it does not pin.
	initial := quality.TierHigh
	if cfg.Quality.Initial != "" {
		t, err := quality.ParseTier(cfg.Quality.Initial)
		if err != nil {
			return nil, fmt.Errorf("perf: %w", err)
		}
		if t != quality.TierAuto {
			initial = t
		}
	}

	engine := quality.NewEngine(quality.Config{
		Initial:       initial,
		Cooldown:      cfg.Quality.CooldownSeconds,
		LowFPS:        cfg.Quality.LowFPS,
		HighMemoryMB:  cfg.Quality.HighMemoryMB,
		RaiseFPS:      cfg.Quality.RaiseFPS,
		RaiseMemoryMB: cfg.Quality.RaiseMemoryMB,
	})

	caps := texture.HardwareCaps{
		ASTC: cfg.Texture.ASTC,
		ETC2: cfg.Texture.ETC2,
		S3TC: cfg.Texture.S3TC,
	}

	c := &Controller{
		cfg:         cfg,
		registry:    pool.NewRegistry(),
		selector:    lod.NewSelector(cfg.LOD.UpdateIntervalSeconds),
		reducer:     texture.NewReducer(initial, caps),
		collector:   collector,
		engine:      engine,
		initialized: true,
		log:         slog.Default().With("component", "perf_controller"),
	}

	// Tier changes fan out: the reducer drops its cache for the new
	// tier, the collector records the change as an informational
	// alert and on its gauge.
	c.engine.OnChange(func(ch quality.Change) {
		c.reducer.SetQuality(ch.To)
		c.collector.Emit(metrics.AlertQualityChange, metrics.SeverityInfo,
			fmt.Sprintf("quality %s -> %s (%s)", ch.From, ch.To, ch.Reason),
			float64(ch.To), float64(ch.From))
		c.collector.RecordQualityTier(float64(ch.To))
	})

	// The engine evaluates on the collector's sampling tick, so rule
	// checks run against freshly derived aggregates.
	c.collector.OnSample(func(snap metrics.Snapshot) {
		c.engine.Evaluate(snap)
	})
	c.collector.RecordQualityTier(float64(initial))

	return c, nil
}

// Update advances the controller by one frame. dt is the frame delta
// in seconds. Must be called from the host's update loop.
func (c *Controller) Update(dt float64) {
	if !c.initialized {
		return
	}
	c.collector.RecordFrame(dt)
	c.collector.Update(dt)
	c.selector.Update(dt)
}

// SetViewpoint moves the LOD reference point, normally the camera or
// the player vehicle.
func (c *Controller) SetViewpoint(v lod.Vec3) {
	if !c.initialized {
		return
	}
	c.selector.SetViewpoint(v)
}

// RegisterVehicle tracks v with the standard vehicle detail table.
func (c *Controller) RegisterVehicle(v *Vehicle) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	return c.selector.Register(v, lod.VehicleLevels())
}

// RegisterZombie tracks z with the standard zombie detail table.
func (c *Controller) RegisterZombie(z *Zombie) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	return c.selector.Register(z, lod.ZombieLevels())
}

// UnregisterObject stops LOD tracking for obj. Unknown objects are a
// no-op.
func (c *Controller) UnregisterObject(obj lod.Object) {
	if !c.initialized {
		return
	}
	c.selector.Unregister(obj)
}

// AcquireParticle takes a particle from the kind's pool, creating the
// pool on first use.
func (c *Controller) AcquireParticle(kind string) (*Particle, error) {
	p, err := c.particlePool(kind)
	if err != nil {
		return nil, err
	}
	return p.Acquire(), nil
}

// ReleaseParticle returns obj to the kind's pool. An unknown kind is a
// wiring bug and surfaces as pool.ErrPoolNotFound; per-pool misuse
// (double release, foreign object) is logged by the pool as a warning
// and is not an error.
func (c *Controller) ReleaseParticle(kind string, obj *Particle) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	return c.registry.Release("particle:"+kind, obj)
}

// AcquireZombie takes a zombie entity from the kind's pool, creating
// the pool on first use. The entity still needs RegisterZombie to be
// LOD-tracked.
func (c *Controller) AcquireZombie(kind string) (*Zombie, error) {
	p, err := c.zombiePool(kind)
	if err != nil {
		return nil, err
	}
	z := p.Acquire()
	z.Kind = kind
	return z, nil
}

// ReleaseZombie unregisters obj from LOD tracking and returns it to
// its pool. An unknown kind surfaces as pool.ErrPoolNotFound.
func (c *Controller) ReleaseZombie(obj *Zombie) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if obj == nil {
		return errors.New("perf: release of nil zombie")
	}
	c.selector.Unregister(obj)
	return c.registry.Release("zombie:"+obj.Kind, obj)
}

func (c *Controller) particlePool(kind string) (*pool.Pool[*Particle], error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	name := "particle:" + kind
	if p, ok := pool.Get[*Particle](c.registry, name); ok {
		return p, nil
	}
	return pool.CreatePool(c.registry, name, newParticle, resetParticle, pool.Config{
		InitialSize: c.cfg.Pool.ParticleInitialSize,
		HardLimit:   c.cfg.Pool.ParticleHardLimit,
		Verbose:     c.cfg.Verbose,
	})
}

func (c *Controller) zombiePool(kind string) (*pool.Pool[*Zombie], error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	name := "zombie:" + kind
	if p, ok := pool.Get[*Zombie](c.registry, name); ok {
		return p, nil
	}
	return pool.CreatePool(c.registry, name, newZombie, resetZombie, pool.Config{
		InitialSize: c.cfg.Pool.ZombieInitialSize,
		HardLimit:   c.cfg.Pool.ZombieHardLimit,
		Verbose:     c.cfg.Verbose,
	})
}

// OptimizeTexture runs tex through the reducer at the current tier.
func (c *Controller) OptimizeTexture(tex *texture.Texture) *texture.Texture {
	if !c.initialized {
		return tex
	}
	return c.reducer.Optimize(tex, texture.Options{})
}

// SetQualityLevel overrides the tier. quality.TierAuto resumes
// automatic adjustment.
func (c *Controller) SetQualityLevel(t quality.Tier) {
	if !c.initialized {
		return
	}
	c.engine.SetTier(t)
}

// QualityLevel returns the current tier.
func (c *Controller) QualityLevel() quality.Tier {
	if !c.initialized {
		return quality.TierLow
	}
	return c.engine.Tier()
}

// Collector exposes the metrics collector for alert and sample hooks.
func (c *Controller) Collector() *metrics.Collector {
	return c.collector
}

// SceneStats forwards a provider to the collector so draw calls and
// triangle counts show up in snapshots.
func (c *Controller) SceneStats(p metrics.SceneStatsProvider) {
	if !c.initialized {
		return
	}
	c.collector.SetSceneStatsProvider(p)
}

// Stats returns the combined subsystem view, or nil before New.
func (c *Controller) Stats() *PerformanceStats {
	if !c.initialized {
		return nil
	}
	return &PerformanceStats{
		Quality:    c.engine.Tier(),
		Auto:       c.engine.Auto(),
		Metrics:    c.collector.Snapshot(),
		Pools:      c.registry.AllStats(),
		LODCounts:  c.selector.Counts(),
		LODObjects: c.selector.Len(),
		Texture:    c.reducer.Stats(),
	}
}

// RunBenchmark measures the controller's own hot paths with the
// default procedure set and returns the report.
func (c *Controller) RunBenchmark(ctx context.Context) (*bench.Report, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	h := bench.NewHarness()
	for _, p := range c.defaultProcedures() {
		h.Add(p)
	}
	return h.Run(ctx), nil
}

// Stop pauses metric collection, and with it automatic quality
// adjustment. Frame updates remain safe to call.
func (c *Controller) Stop() {
	if !c.initialized {
		return
	}
	c.collector.Stop()
}

// Start resumes metric collection after Stop.
func (c *Controller) Start() {
	if !c.initialized {
		return
	}
	c.collector.Start()
}

// Close releases every pooled object and marks the controller
// unusable.
func (c *Controller) Close() {
	if !c.initialized {
		return
	}
	c.collector.Stop()
	c.selector.Clear()
	c.registry.ClearAll()
	c.initialized = false
}
