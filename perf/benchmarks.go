package perf

import (
	"context"
	"time"

	"github.com/sayantanmandal1/EarnToDie-sub005/bench"
	"github.com/sayantanmandal1/EarnToDie-sub005/lod"
	"github.com/sayantanmandal1/EarnToDie-sub005/pool"
)

// defaultProcedures measures the controller's hot paths: pool churn,
// LOD evaluation over a populated scene, and the per-frame tick.
// Each sample is the latency of one batch in milliseconds.
func (c *Controller) defaultProcedures() []bench.Procedure {
	warmup := time.Duration(c.cfg.Bench.WarmupSeconds * float64(time.Second))
	duration := time.Duration(c.cfg.Bench.DurationSeconds * float64(time.Second))

	return []bench.Procedure{
		{
			Name:     "pool_churn",
			Warmup:   warmup,
			Duration: duration,
			Run:      c.benchPoolChurn,
		},
		{
			Name:     "lod_update",
			Warmup:   warmup,
			Duration: duration,
			Run:      c.benchLODUpdate,
		},
		{
			Name:     "frame_tick",
			Warmup:   warmup,
			Duration: duration,
			Run:      c.benchFrameTick,
		},
	}
}

func (c *Controller) benchPoolChurn(ctx context.Context, rec *bench.Recorder) error {
	const batch = 256

	// Standalone pool so the measurement leaves no trace in the live
	// registry's stats.
	p, err := pool.NewPool("bench_particle", newParticle, resetParticle, pool.Config{
		InitialSize: c.cfg.Pool.ParticleInitialSize,
		HardLimit:   c.cfg.Pool.ParticleHardLimit,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	buf := make([]*Particle, 0, batch)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		for i := 0; i < batch; i++ {
			buf = append(buf, p.Acquire())
		}
		for _, obj := range buf {
			p.Release(obj)
		}
		buf = buf[:0]
		rec.Record(float64(time.Since(start)) / float64(time.Millisecond))
	}
}

func (c *Controller) benchLODUpdate(ctx context.Context, rec *bench.Recorder) error {
	const count = 200

	sel := lod.NewSelector(lod.DefaultUpdateInterval)
	for i := 0; i < count; i++ {
		z := newZombie()
		z.Pos = lod.Vec3{X: float64(i * 3), Z: float64(i % 7)}
		if err := sel.Register(z, lod.ZombieLevels()); err != nil {
			return err
		}
	}

	var shift float64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		shift += 5
		sel.SetViewpoint(lod.Vec3{X: shift})
		start := time.Now()
		sel.Evaluate()
		rec.Record(float64(time.Since(start)) / float64(time.Millisecond))
	}
}

func (c *Controller) benchFrameTick(ctx context.Context, rec *bench.Recorder) error {
	const dt = 1.0 / 60

	// A throwaway controller so the benchmark does not pollute the
	// live collector's series or trigger quality changes.
	scratch, err := New(c.cfg)
	if err != nil {
		return err
	}
	defer scratch.Close()

	zp, err := pool.CreatePool(scratch.registry, "bench:zombie", newZombie, resetZombie, pool.DefaultConfig())
	if err != nil {
		return err
	}
	for i := 0; i < 100; i++ {
		z := zp.Acquire()
		z.Pos = lod.Vec3{X: float64(i * 4)}
		if err := scratch.selector.Register(z, lod.ZombieLevels()); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		scratch.Update(dt)
		rec.Record(float64(time.Since(start)) / float64(time.Millisecond))
	}
}
