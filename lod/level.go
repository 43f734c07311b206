// Package lod selects a discrete detail tier for each registered scene
// object from its distance to the viewpoint. Re-evaluation is throttled
// to a configurable interval so its cost never lands on every frame.
package lod

import "math"

// Vec3 is a point in world space.
type Vec3 struct {
	X, Y, Z float64
}

// DistanceTo returns the Euclidean distance between two points.
func (v Vec3) DistanceTo(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Detail describes what a tier looks like when applied. Geometry and
// material ownership stays with the rendering collaborator; this only
// names the references and the quality knobs.
type Detail struct {
	GeometryRef   string
	MaterialRef   string
	AnimationRate float64 // animation updates per second scale, 0 = frozen
	ShowSecondary bool    // secondary detail (accessories, decals)
	Visible       bool
	Scale         float64
}

// Level is one ordered detail tier. MaxDistance is the far edge of the
// tier; the last tier of a table must be unbounded (math.Inf(1)) and
// usually represents a culled object that is still logically active.
type Level struct {
	Name        string
	MaxDistance float64
	Detail      Detail
}

// Unbounded reports whether the level has an infinite threshold.
func (l Level) Unbounded() bool {
	return math.IsInf(l.MaxDistance, 1)
}

// Object is the minimal surface a registered scene object must expose.
type Object interface {
	Position() Vec3
}

// Applier is optionally implemented by objects that want tier changes
// pushed into them. Objects without it still get distance bookkeeping.
type Applier interface {
	ApplyLOD(level Level)
}
