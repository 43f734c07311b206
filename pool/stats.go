package pool

import "sync/atomic"

// poolStats contains all the statistics for the pool.
type poolStats struct {
	objectsCreated atomic.Uint64
	objectsReused  atomic.Uint64
	totalAcquires  atomic.Uint64
	totalReleases  atomic.Uint64
	peakActive     atomic.Uint64
	misuseReleases atomic.Uint64
	discarded      atomic.Uint64
}

// StatsSnapshot represents a snapshot of a pool's statistics at a given moment.
type StatsSnapshot struct {
	Name string

	// Lifecycle counters
	Created  uint64 // objects constructed by the allocator
	Reused   uint64 // acquires served from the free list
	Active   uint64 // objects currently checked out
	Pooled   uint64 // objects currently in the free list
	Capacity uint64 // free list capacity

	// Usage counters
	TotalAcquires uint64
	TotalReleases uint64
	PeakActive    uint64

	// MisuseReleases counts releases of objects not active in this pool
	// (double releases and foreign objects are indistinguishable once an
	// object has left the active set). Recorded as warnings, not failures.
	MisuseReleases uint64

	// Objects dropped on release because the free list hit its hard limit.
	Discarded uint64

	// ReuseRatio is reused acquires over total acquires (0 when unused).
	ReuseRatio float64
}

func (p *Pool[T]) snapshotStats() StatsSnapshot {
	s := StatsSnapshot{
		Name:           p.name,
		Created:        p.stats.objectsCreated.Load(),
		Reused:         p.stats.objectsReused.Load(),
		Active:         uint64(len(p.active)),
		Pooled:         uint64(p.free.Len()),
		Capacity:       uint64(p.free.Cap()),
		TotalAcquires:  p.stats.totalAcquires.Load(),
		TotalReleases:  p.stats.totalReleases.Load(),
		PeakActive:     p.stats.peakActive.Load(),
		MisuseReleases: p.stats.misuseReleases.Load(),
		Discarded:      p.stats.discarded.Load(),
	}

	if s.TotalAcquires > 0 {
		s.ReuseRatio = float64(s.Reused) / float64(s.TotalAcquires)
	}
	return s
}

func (p *Pool[T]) updatePeakActive() {
	active := uint64(len(p.active))
	if active > p.stats.peakActive.Load() {
		p.stats.peakActive.Store(active)
	}
}
