package lod

import (
	"errors"
	"fmt"
	"log/slog"
)

// DefaultUpdateInterval is how often registered objects are re-evaluated,
// in seconds of accumulated simulation time.
const DefaultUpdateInterval = 0.1

var (
	// ErrNoLevels is returned when registering with an empty tier table.
	ErrNoLevels = errors.New("lod: level table must not be empty")

	// ErrUnorderedLevels is returned when thresholds are not strictly increasing.
	ErrUnorderedLevels = errors.New("lod: level thresholds must be strictly increasing")

	// ErrBoundedTail is returned when the last tier has a finite threshold.
	ErrBoundedTail = errors.New("lod: last level must have an unbounded threshold")

	// ErrAlreadyRegistered is returned when an object is registered twice.
	ErrAlreadyRegistered = errors.New("lod: object already registered")
)

// registration binds one scene object to its ordered tier table and the
// currently applied tier index.
type registration struct {
	object  Object
	levels  []Level
	current int
}

// Selector tracks registered objects and applies the tier matching each
// object's distance from the viewpoint. It is frame-driven: Update
// accumulates delta time and only re-evaluates once per interval.
type Selector struct {
	interval  float64
	accum     float64
	viewpoint Vec3

	registrations map[Object]*registration
	log           *slog.Logger
}

// NewSelector creates a selector re-evaluating every interval seconds.
// A non-positive interval falls back to DefaultUpdateInterval.
func NewSelector(interval float64) *Selector {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	return &Selector{
		interval:      interval,
		registrations: make(map[Object]*registration),
		log:           slog.Default().With("component", "lod_selector"),
	}
}

// Register validates the tier table and starts tracking obj at tier 0.
func (s *Selector) Register(obj Object, levels []Level) error {
	if obj == nil {
		return errors.New("lod: object must not be nil")
	}
	if len(levels) == 0 {
		return ErrNoLevels
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].MaxDistance <= levels[i-1].MaxDistance {
			return fmt.Errorf("%w: level %d (%g) <= level %d (%g)",
				ErrUnorderedLevels, i, levels[i].MaxDistance, i-1, levels[i-1].MaxDistance)
		}
	}
	if !levels[len(levels)-1].Unbounded() {
		return ErrBoundedTail
	}
	if _, ok := s.registrations[obj]; ok {
		return ErrAlreadyRegistered
	}

	reg := &registration{
		object:  obj,
		levels:  levels,
		current: 0,
	}
	s.registrations[obj] = reg
	s.apply(reg, 0)
	return nil
}

// Unregister stops tracking obj. Safe to call for objects that were
// never registered.
func (s *Selector) Unregister(obj Object) {
	delete(s.registrations, obj)
}

// SetViewpoint updates the camera position used for distance checks.
func (s *Selector) SetViewpoint(v Vec3) {
	s.viewpoint = v
}

// Viewpoint returns the current camera position.
func (s *Selector) Viewpoint() Vec3 {
	return s.viewpoint
}

// Update accumulates delta time and re-evaluates every registered
// object once per interval. Never more than one evaluation per call, so
// a long frame cannot trigger a burst of catch-up work.
func (s *Selector) Update(dt float64) {
	s.accum += dt
	if s.accum < s.interval {
		return
	}
	s.accum = 0
	s.Evaluate()
}

// Evaluate re-selects the tier for every registered object immediately,
// bypassing the throttle. The tier swap only runs on an actual change.
func (s *Selector) Evaluate() {
	for _, reg := range s.registrations {
		distance := s.viewpoint.DistanceTo(reg.object.Position())
		selected := selectLevel(reg.levels, distance)
		if selected != reg.current {
			s.apply(reg, selected)
		}
	}
}

// selectLevel returns the first tier whose threshold covers distance.
// A distance exactly on a threshold selects the nearer tier. The final
// unbounded tier catches everything beyond the finite thresholds.
func selectLevel(levels []Level, distance float64) int {
	for i, l := range levels {
		if distance <= l.MaxDistance {
			return i
		}
	}
	return len(levels) - 1
}

func (s *Selector) apply(reg *registration, idx int) {
	reg.current = idx
	if applier, ok := reg.object.(Applier); ok {
		applier.ApplyLOD(reg.levels[idx])
	}
}

// CurrentLevel returns the applied tier index for obj.
func (s *Selector) CurrentLevel(obj Object) (int, bool) {
	reg, ok := s.registrations[obj]
	if !ok {
		return 0, false
	}
	return reg.current, true
}

// Len returns the number of registered objects.
func (s *Selector) Len() int {
	return len(s.registrations)
}

// Counts returns how many objects currently sit in each tier index.
// The slice is sized to the longest registered table.
func (s *Selector) Counts() []int {
	maxLevels := 0
	for _, reg := range s.registrations {
		if len(reg.levels) > maxLevels {
			maxLevels = len(reg.levels)
		}
	}
	counts := make([]int, maxLevels)
	for _, reg := range s.registrations {
		counts[reg.current]++
	}
	return counts
}

// Clear removes every registration. Tier state on the objects is left
// as last applied.
func (s *Selector) Clear() {
	clear(s.registrations)
}
