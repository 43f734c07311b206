// Package main provides the perfsim CLI: a synthetic scene that
// exercises the performance controller without a renderer, plus the
// benchmark harness.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sayantanmandal1/EarnToDie-sub005/config"
	"github.com/sayantanmandal1/EarnToDie-sub005/lod"
	"github.com/sayantanmandal1/EarnToDie-sub005/metrics"
	"github.com/sayantanmandal1/EarnToDie-sub005/perf"
	"github.com/sayantanmandal1/EarnToDie-sub005/quality"
)

var version = "0.1.0"

func main() {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "perfsim",
		Short: "Adaptive performance controller simulator",
		Long: `perfsim drives the performance controller against a synthetic
zombie scene: pooled entities, LOD transitions, metric sampling and
automatic quality adjustment, all without a renderer.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("perfsim v%s\n", version)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the synthetic scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, _ := cmd.Flags().GetDuration("duration")
			zombies, _ := cmd.Flags().GetInt("zombies")
			tier, _ := cmd.Flags().GetString("quality")
			return runScene(configPath, duration, zombies, tier)
		},
	}
	runCmd.Flags().Duration("duration", 10*time.Second, "Simulated run length")
	runCmd.Flags().Int("zombies", 150, "Zombie entities in the scene")
	runCmd.Flags().String("quality", "auto", "Quality tier (low|medium|high|ultra|auto)")
	rootCmd.AddCommand(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the built-in benchmark procedures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(configPath)
		},
	}
	rootCmd.AddCommand(benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runScene(configPath string, duration time.Duration, zombieCount int, tier string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if tier != "" {
		cfg.Quality.Initial = tier
	}

	ctrl, err := perf.New(cfg)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctrl.Collector().OnAlert(func(a metrics.Alert) {
		slog.Info("alert", "type", a.Type, "severity", a.Severity,
			"message", a.Message, "sim_time", fmt.Sprintf("%.1fs", a.SimTime))
	})
	if t, err := quality.ParseTier(tier); err == nil && t != quality.TierAuto {
		ctrl.SetQualityLevel(t)
	}

	zombies := make([]*perf.Zombie, 0, zombieCount)
	for i := 0; i < zombieCount; i++ {
		z, err := ctrl.AcquireZombie("walker")
		if err != nil {
			return err
		}
		z.Pos = lod.Vec3{X: float64(i * 4), Z: float64(i%13) * 2}
		if err := ctrl.RegisterZombie(z); err != nil {
			return err
		}
		zombies = append(zombies, z)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Fixed 60 Hz simulation. The vehicle drives down the road so
	// zombies sweep through every LOD band.
	const dt = 1.0 / 60
	frames := int(duration.Seconds() / dt)
	var simTime float64
	burst := make([]*perf.Particle, 0, 8)
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "sim_time", fmt.Sprintf("%.1fs", simTime))
			return nil
		default:
		}

		simTime += dt
		ctrl.SetViewpoint(lod.Vec3{X: 30 * simTime})
		for _, z := range zombies {
			z.Pos.X += math.Sin(simTime+z.Pos.Z) * 0.5
		}

		// Particle churn: a short burst every frame, released next frame.
		for _, p := range burst {
			ctrl.ReleaseParticle("exhaust", p)
		}
		burst = burst[:0]
		for j := 0; j < 8; j++ {
			p, err := ctrl.AcquireParticle("exhaust")
			if err != nil {
				return err
			}
			p.X, p.Life = 30*simTime, 0.5
			burst = append(burst, p)
		}

		ctrl.Update(dt)
	}
	for _, p := range burst {
		ctrl.ReleaseParticle("exhaust", p)
	}

	printStats(ctrl.Stats())
	for _, z := range zombies {
		ctrl.ReleaseZombie(z)
	}
	return nil
}

func printStats(s *perf.PerformanceStats) {
	if s == nil {
		return
	}
	fmt.Printf("quality: %s (auto=%v)\n", s.Quality, s.Auto)
	fmt.Printf("fps: %.1f  frame: %.2fms avg  mem: %.1fMB  gc events: %d  alerts: %d\n",
		s.Metrics.FPS, s.Metrics.FrameTime.Average, s.Metrics.MemoryMB.Current,
		s.Metrics.GCEvents, s.Metrics.Alerts)
	fmt.Printf("lod: %d objects, per-tier %v\n", s.LODObjects, s.LODCounts)
	fmt.Printf("texture cache: %d entries, %d hits, %d misses\n",
		s.Texture.Entries, s.Texture.Hits, s.Texture.Misses)
	for name, ps := range s.Pools {
		fmt.Printf("pool %-18s created=%-5d reused=%-5d active=%-5d pooled=%-5d reuse=%.0f%%\n",
			name, ps.Created, ps.Reused, ps.Active, ps.Pooled, ps.ReuseRatio*100)
	}
}

func runBench(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	ctrl, err := perf.New(cfg)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := ctrl.RunBenchmark(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("benchmark %s  elapsed %s  score %.1f/100\n",
		report.ID, report.Elapsed.Round(time.Millisecond), report.Score)
	for _, r := range report.Results {
		if r.Failed() {
			fmt.Printf("  %-12s FAILED: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("  %-12s avg=%.3fms p95=%.3fms p99=%.3fms stability=%.0f (%d samples)\n",
			r.Name, r.Summary.Average, r.Summary.P95, r.Summary.P99,
			r.Summary.Stability, r.Samples)
	}
	for _, rec := range report.Recommendations {
		fmt.Printf("  hint: %s\n", rec)
	}
	return nil
}
