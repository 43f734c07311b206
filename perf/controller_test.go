package perf_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayantanmandal1/EarnToDie-sub005/config"
	"github.com/sayantanmandal1/EarnToDie-sub005/lod"
	"github.com/sayantanmandal1/EarnToDie-sub005/metrics"
	"github.com/sayantanmandal1/EarnToDie-sub005/perf"
	"github.com/sayantanmandal1/EarnToDie-sub005/pool"
	"github.com/sayantanmandal1/EarnToDie-sub005/quality"
	"github.com/sayantanmandal1/EarnToDie-sub005/texture"
)

func newController(t *testing.T, mutate func(*config.Config)) *perf.Controller {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	c, err := perf.New(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewWithDefaults(t *testing.T) {
	c := newController(t, nil)
	assert.Equal(t, quality.TierHigh, c.QualityLevel())

	stats := c.Stats()
	require.NotNil(t, stats)
	assert.True(t, stats.Auto)
	assert.Zero(t, stats.LODObjects)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Quality.Initial = "imaginary"
	_, err := perf.New(cfg)
	assert.Error(t, err)
}

func TestParticleLifecycle(t *testing.T) {
	c := newController(t, func(cfg *config.Config) {
		cfg.Pool.ParticleInitialSize = 4
	})

	p, err := c.AcquireParticle("spark")
	require.NoError(t, err)
	require.NotNil(t, p)
	p.X, p.Life = 10, 2.5

	require.NoError(t, c.ReleaseParticle("spark", p))

	// A double release is misuse, not an error: the pool logs it and
	// counts it.
	require.NoError(t, c.ReleaseParticle("spark", p))
	assert.Equal(t, uint64(1), c.Stats().Pools["particle:spark"].MisuseReleases)

	again, err := c.AcquireParticle("spark")
	require.NoError(t, err)
	assert.Same(t, p, again)
	assert.Zero(t, again.X) // reset ran on release
	assert.Zero(t, again.Life)
}

func TestReleaseParticleUnknownKind(t *testing.T) {
	c := newController(t, nil)

	// Releasing into a pool that was never created is a wiring bug and
	// surfaces loudly, unlike per-pool misuse.
	err := c.ReleaseParticle("never_created", &perf.Particle{})
	assert.ErrorIs(t, err, pool.ErrPoolNotFound)
}

func TestReleaseZombieUnknownKind(t *testing.T) {
	c := newController(t, nil)

	stray := &perf.Zombie{Kind: "ghost"}
	err := c.ReleaseZombie(stray)
	assert.ErrorIs(t, err, pool.ErrPoolNotFound)

	assert.Error(t, c.ReleaseZombie(nil))
}

func TestZombieLifecycleWithLOD(t *testing.T) {
	c := newController(t, nil)

	z, err := c.AcquireZombie("walker")
	require.NoError(t, err)
	assert.Equal(t, "walker", z.Kind)

	z.Pos = lod.Vec3{X: 150}
	require.NoError(t, c.RegisterZombie(z))

	stats := c.Stats()
	assert.Equal(t, 1, stats.LODObjects)

	// Past the update interval the zombie lands in its distance band.
	c.Update(0.2)
	assert.InDelta(t, 0.1, z.Detail.AnimationRate, 0.001)
	assert.True(t, z.Detail.Visible)

	require.NoError(t, c.ReleaseZombie(z))
	assert.Zero(t, c.Stats().LODObjects)
}

func TestVehicleRegistration(t *testing.T) {
	c := newController(t, nil)

	v := &perf.Vehicle{Pos: lod.Vec3{X: 30}}
	require.NoError(t, c.RegisterVehicle(v))
	c.Update(0.2)
	assert.True(t, v.Detail.Visible)
	assert.Equal(t, 1.0, v.Detail.AnimationRate)

	c.UnregisterObject(v)
	assert.Zero(t, c.Stats().LODObjects)
}

func TestViewpointDrivesLOD(t *testing.T) {
	c := newController(t, nil)

	z, err := c.AcquireZombie("walker")
	require.NoError(t, err)
	z.Pos = lod.Vec3{X: 300}
	require.NoError(t, c.RegisterZombie(z))

	c.Update(0.2)
	assert.False(t, z.Detail.Visible) // culled at 300m

	c.SetViewpoint(lod.Vec3{X: 290})
	c.Update(0.2)
	assert.True(t, z.Detail.Visible) // now 10m away
}

func TestManualQualityOverride(t *testing.T) {
	c := newController(t, nil)

	c.SetQualityLevel(quality.TierLow)
	assert.Equal(t, quality.TierLow, c.QualityLevel())

	stats := c.Stats()
	assert.False(t, stats.Auto)

	c.SetQualityLevel(quality.TierAuto)
	assert.True(t, c.Stats().Auto)
}

func TestQualityChangeInvalidatesTextures(t *testing.T) {
	c := newController(t, nil)

	src := &texture.Texture{ID: "road", Width: 2048, Height: 2048}
	out := c.OptimizeTexture(src)
	assert.Equal(t, 1024, out.Width) // high tier cap

	c.SetQualityLevel(quality.TierLow)
	out = c.OptimizeTexture(src)
	assert.Equal(t, 256, out.Width)
	assert.Equal(t, uint64(1), c.Stats().Texture.Invalidations)
}

func TestQualityChangeEmitsAlert(t *testing.T) {
	c := newController(t, nil)

	var seen []metrics.Alert
	c.Collector().OnAlert(func(a metrics.Alert) { seen = append(seen, a) })

	c.SetQualityLevel(quality.TierMedium)
	require.NotEmpty(t, seen)
	assert.Equal(t, metrics.AlertQualityChange, seen[0].Type)
	assert.Equal(t, metrics.SeverityInfo, seen[0].Severity)
}

func TestAutoAdjustmentUnderLoad(t *testing.T) {
	c := newController(t, func(cfg *config.Config) {
		cfg.Metrics.SampleIntervalSeconds = 0.5
		cfg.Quality.CooldownSeconds = 1.0
	})
	require.Equal(t, quality.TierHigh, c.QualityLevel())

	// Sustained quarter-second frames: 4 FPS, far below the watermark.
	for range 20 {
		c.Update(0.25)
	}
	assert.Less(t, c.QualityLevel(), quality.TierHigh)
}

func TestStatsNilWhenClosed(t *testing.T) {
	cfg := config.Default()
	c, err := perf.New(cfg)
	require.NoError(t, err)

	c.Close()
	assert.Nil(t, c.Stats())

	_, err = c.AcquireParticle("spark")
	assert.ErrorIs(t, err, perf.ErrNotInitialized)
	assert.ErrorIs(t, c.ReleaseParticle("spark", &perf.Particle{}), perf.ErrNotInitialized)
	assert.Equal(t, quality.TierLow, c.QualityLevel())
}

func TestStopPausesAdjustment(t *testing.T) {
	c := newController(t, func(cfg *config.Config) {
		cfg.Metrics.SampleIntervalSeconds = 0.5
		cfg.Quality.CooldownSeconds = 1.0
	})

	c.Stop()
	for range 20 {
		c.Update(0.25)
	}
	assert.Equal(t, quality.TierHigh, c.QualityLevel())

	c.Start()
	for range 20 {
		c.Update(0.25)
	}
	assert.Less(t, c.QualityLevel(), quality.TierHigh)
}

func TestStatsAggregation(t *testing.T) {
	c := newController(t, nil)

	_, err := c.AcquireParticle("spark")
	require.NoError(t, err)
	z, err := c.AcquireZombie("walker")
	require.NoError(t, err)
	require.NoError(t, c.RegisterZombie(z))

	stats := c.Stats()
	require.NotNil(t, stats)
	assert.Contains(t, stats.Pools, "particle:spark")
	assert.Contains(t, stats.Pools, "zombie:walker")
	assert.Equal(t, 1, stats.LODObjects)
	assert.Len(t, stats.LODCounts, 4)
}

func TestRunBenchmark(t *testing.T) {
	c := newController(t, func(cfg *config.Config) {
		cfg.Bench.WarmupSeconds = 0
		cfg.Bench.DurationSeconds = 0.05
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, err := c.RunBenchmark(ctx)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	for _, r := range report.Results {
		assert.False(t, r.Failed(), "%s: %v", r.Name, r.Err)
		assert.Greater(t, r.Samples, 0, r.Name)
	}

	// The run must not leave scratch pools behind in the live registry.
	assert.Empty(t, c.Stats().Pools)
}
