package quality

import (
	"log/slog"
	"sort"

	"github.com/sayantanmandal1/EarnToDie-sub005/metrics"
)

// Action is what a matched rule does to the tier.
type Action int

const (
	ActionDecrease Action = iota
	ActionIncrease
)

func (a Action) String() string {
	if a == ActionIncrease {
		return "increase"
	}
	return "decrease"
}

// Rule is a predicate over the current metric snapshot. Rules are
// evaluated in descending priority each adjustment cycle; the first
// match wins.
type Rule struct {
	Name     string
	Priority int
	Reason   string
	Action   Action
	When     func(metrics.Snapshot) bool
}

// Change records one tier transition, automatic or manual.
type Change struct {
	From    Tier
	To      Tier
	Reason  string
	SimTime float64
}

// Config controls the engine's cooldown and the default rules'
// watermarks.
type Config struct {
	Initial  Tier
	Cooldown float64 // seconds of sim time required between adjustments

	// Watermarks for DefaultRules.
	LowFPS        float64 // below this, decrease
	HighMemoryMB  float64 // above this, decrease
	RaiseFPS      float64 // above this (and memory below RaiseMemoryMB), increase
	RaiseMemoryMB float64
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Initial:       TierHigh,
		Cooldown:      5.0,
		LowFPS:        30,
		HighMemoryMB:  512,
		RaiseFPS:      55,
		RaiseMemoryMB: 384,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Cooldown <= 0 {
		c.Cooldown = d.Cooldown
	}
	if !c.Initial.Valid() {
		c.Initial = d.Initial
	}
	if c.LowFPS <= 0 {
		c.LowFPS = d.LowFPS
	}
	if c.HighMemoryMB <= 0 {
		c.HighMemoryMB = d.HighMemoryMB
	}
	if c.RaiseFPS <= 0 {
		c.RaiseFPS = d.RaiseFPS
	}
	if c.RaiseMemoryMB <= 0 {
		c.RaiseMemoryMB = d.RaiseMemoryMB
	}
	return c
}

// Engine is the tier state machine. The cooldown prevents quality
// flapping when metrics hover near a threshold.
type Engine struct {
	cfg   Config
	tier  Tier
	rules []Rule

	manual     bool
	adjusted   bool
	lastAdjust float64
	onChange   []func(Change)
	log        *slog.Logger
}

// NewEngine creates an engine with the config's default rule set.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:  cfg,
		tier: cfg.Initial,
		log:  slog.Default().With("component", "quality_engine"),
	}
	e.SetRules(DefaultRules(cfg))
	return e
}

// DefaultRules builds the standard rule set from the config watermarks:
// starvation-level frame rate beats memory pressure, and the engine
// only raises quality when both frame rate and memory sit comfortably
// inside their watermarks.
func DefaultRules(cfg Config) []Rule {
	cfg = cfg.withDefaults()
	return []Rule{
		{
			Name:     "low_framerate",
			Priority: 100,
			Reason:   "average frame rate below low watermark",
			Action:   ActionDecrease,
			When: func(s metrics.Snapshot) bool {
				return s.FPS > 0 && s.FPS < cfg.LowFPS
			},
		},
		{
			Name:     "high_memory",
			Priority: 50,
			Reason:   "memory usage above high watermark",
			Action:   ActionDecrease,
			When: func(s metrics.Snapshot) bool {
				return s.MemoryMB.Current > cfg.HighMemoryMB
			},
		},
		{
			Name:     "headroom",
			Priority: 10,
			Reason:   "frame rate and memory comfortably inside watermarks",
			Action:   ActionIncrease,
			When: func(s metrics.Snapshot) bool {
				return s.FPS > cfg.RaiseFPS && s.MemoryMB.Current > 0 &&
					s.MemoryMB.Current < cfg.RaiseMemoryMB
			},
		},
	}
}

// SetRules replaces the rule set. Rules are kept sorted by descending
// priority so evaluation order is fixed.
func (e *Engine) SetRules(rules []Rule) {
	e.rules = make([]Rule, len(rules))
	copy(e.rules, rules)
	sort.SliceStable(e.rules, func(i, j int) bool {
		return e.rules[i].Priority > e.rules[j].Priority
	})
}

// Tier returns the current global tier.
func (e *Engine) Tier() Tier {
	return e.tier
}

// Auto reports whether automatic adjustment is active.
func (e *Engine) Auto() bool {
	return !e.manual
}

// OnChange appends an observer notified of every tier change.
func (e *Engine) OnChange(fn func(Change)) {
	e.onChange = append(e.onChange, fn)
}

// SetTier applies an explicit override and pauses automatic adjustment
// until SetTier(TierAuto) re-enables it.
func (e *Engine) SetTier(t Tier) {
	if t == TierAuto {
		e.manual = false
		e.log.Info("automatic quality adjustment enabled")
		return
	}
	if !t.Valid() {
		e.log.Warn("ignoring invalid quality tier", "tier", int(t))
		return
	}

	e.manual = true
	if t == e.tier {
		return
	}
	e.transition(t, "manual override", e.lastAdjust)
}

// Evaluate runs one adjustment cycle against the snapshot. Only the
// first matching rule fires, and the cooldown must have elapsed since
// the previous adjustment. Returns true when the tier changed.
func (e *Engine) Evaluate(snap metrics.Snapshot) bool {
	if e.manual {
		return false
	}
	if e.adjusted && snap.SimTime-e.lastAdjust < e.cfg.Cooldown {
		return false
	}

	for _, rule := range e.rules {
		if rule.When == nil || !rule.When(snap) {
			continue
		}

		var next Tier
		switch rule.Action {
		case ActionIncrease:
			next = e.tier.higher()
		default:
			next = e.tier.lower()
		}

		if next == e.tier {
			// Already at the floor or ceiling; nothing fired.
			return false
		}

		e.adjusted = true
		e.lastAdjust = snap.SimTime
		e.transition(next, rule.Reason, snap.SimTime)
		return true
	}
	return false
}

func (e *Engine) transition(to Tier, reason string, simTime float64) {
	change := Change{From: e.tier, To: to, Reason: reason, SimTime: simTime}
	e.tier = to

	e.log.Info("quality tier changed",
		"from", change.From.String(), "to", change.To.String(), "reason", reason)

	for _, fn := range e.onChange {
		fn(change)
	}
}
