// Package bench runs named, time-boxed measurement procedures
// sequentially and reduces their samples into a statistical report.
// Procedures never run concurrently, so one test's load cannot skew
// another's numbers.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder collects a procedure's raw samples.
type Recorder struct {
	samples []float64
}

// Record appends one sample.
func (r *Recorder) Record(v float64) {
	r.samples = append(r.samples, v)
}

// Samples returns everything recorded so far.
func (r *Recorder) Samples() []float64 {
	return r.samples
}

// Procedure is one measurement. Run should decompose its work into
// short steps and honor ctx cancellation between them; the harness
// derives ctx's deadline from Duration.
type Procedure struct {
	Name     string
	Warmup   time.Duration
	Duration time.Duration
	Run      func(ctx context.Context, rec *Recorder) error
}

// Result is one procedure's outcome. A failed procedure carries its
// error here instead of aborting the run.
type Result struct {
	Name    string
	Summary Summary
	Samples int
	Err     error
}

// Failed reports whether the procedure errored.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Report aggregates every procedure's result.
type Report struct {
	ID              string
	StartedAt       time.Time
	Elapsed         time.Duration
	Results         []Result
	Score           float64 // heuristic 0-100 overall score
	Recommendations []string
}

// Harness owns an ordered list of procedures.
type Harness struct {
	procedures []Procedure
	log        *slog.Logger
}

// NewHarness returns an empty harness.
func NewHarness() *Harness {
	return &Harness{
		log: slog.Default().With("component", "benchmark"),
	}
}

// Add appends a procedure to the run order.
func (h *Harness) Add(p Procedure) {
	h.procedures = append(h.procedures, p)
}

// Len returns the number of registered procedures.
func (h *Harness) Len() int {
	return len(h.procedures)
}

// Run executes every procedure in order and returns the aggregated
// report. Context cancellation stops the run between procedures and
// inside any procedure that honors its deadline.
func (h *Harness) Run(ctx context.Context) *Report {
	report := &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}

	for _, proc := range h.procedures {
		if ctx.Err() != nil {
			break
		}
		report.Results = append(report.Results, h.runOne(ctx, proc))
	}

	report.Elapsed = time.Since(report.StartedAt)
	report.Score = overallScore(report.Results)
	report.Recommendations = recommend(report.Results)

	h.log.Info("benchmark complete",
		"id", report.ID, "tests", len(report.Results), "score", report.Score)
	return report
}

// runOne executes a single procedure: warm-up delay, then a run bounded
// by the procedure's duration. Panics and errors are captured in the
// result so the remaining procedures still run.
func (h *Harness) runOne(ctx context.Context, proc Procedure) (res Result) {
	res.Name = proc.Name

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("benchmark %q panicked: %v", proc.Name, r)
		}
	}()

	if proc.Run == nil {
		res.Err = fmt.Errorf("benchmark %q has no run function", proc.Name)
		return res
	}

	if proc.Warmup > 0 {
		select {
		case <-ctx.Done():
			res.Err = ctx.Err()
			return res
		case <-time.After(proc.Warmup):
		}
	}

	duration := proc.Duration
	if duration <= 0 {
		duration = time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	rec := &Recorder{}
	h.log.Debug("benchmark procedure starting", "name", proc.Name, "duration", duration)

	if err := proc.Run(runCtx, rec); err != nil && !isDeadline(err) {
		res.Err = err
	}

	res.Samples = len(rec.samples)
	res.Summary = Reduce(rec.samples)
	return res
}

// isDeadline reports whether err is the expected end-of-run signal.
// Parent cancellation is not: a procedure cut short from outside did
// not complete its measurement window and must report as failed.
func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// overallScore averages the stability of successful procedures and
// penalizes failures.
func overallScore(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}

	score := 0.0
	ok := 0
	failures := 0
	for _, r := range results {
		if r.Failed() {
			failures++
			continue
		}
		score += r.Summary.Stability
		ok++
	}

	if ok > 0 {
		score /= float64(ok)
	}
	score -= 20 * float64(failures)
	if score < 0 {
		score = 0
	}
	return score
}

// recommend derives free-text suggestions from simple threshold rules.
func recommend(results []Result) []string {
	var out []string
	for _, r := range results {
		switch {
		case r.Failed():
			out = append(out, fmt.Sprintf("%s failed (%v); investigate before trusting the other numbers", r.Name, r.Err))
		case r.Samples == 0:
			out = append(out, fmt.Sprintf("%s produced no samples; its duration may be too short", r.Name))
		case r.Summary.Stability < 50:
			out = append(out, fmt.Sprintf("%s is unstable (stability %.0f); results vary too much to act on", r.Name, r.Summary.Stability))
		}
	}
	return out
}
