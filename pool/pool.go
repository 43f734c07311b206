// Package pool provides reusable-object pools for transient scene
// objects (particles, projectiles, short-lived enemies) and a named
// registry that routes acquire/release calls by pool name.
//
// A pooled object is in exactly one of two places at any time: the free
// list (available for reuse) or the active set (checked out by a
// caller). On release the caller-supplied reset function runs before
// the object becomes available again, so a reused object always starts
// from the pool's declared fresh state. Objects released once the free
// list sits at its hard limit leave the pool entirely, so the full
// conservation identity is created == active + free + discarded.
package pool

import (
	"fmt"
	"log/slog"

	"github.com/sayantanmandal1/EarnToDie-sub005/ring"
)

// Pool is a single-kind object pool. The allocator constructs new
// objects, the reset function restores caller-visible state on release.
// Type parameter T must be a pointer type so that identity checks on
// the active set are meaningful.
type Pool[T comparable] struct {
	name      string
	allocator func() T
	reset     func(T)

	free   *ring.Buffer[T]
	active map[T]struct{}

	config Config
	stats  poolStats
	closed bool
	log    *slog.Logger
}

// NewPool creates a pool and pre-warms cfg.InitialSize objects into the
// free list. The allocator and reset functions are required.
func NewPool[T comparable](name string, allocator func() T, reset func(T), cfg Config) (*Pool[T], error) {
	if allocator == nil {
		return nil, fmt.Errorf("pool %q: allocator must not be nil", name)
	}
	if reset == nil {
		return nil, fmt.Errorf("pool %q: reset function must not be nil", name)
	}

	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("pool %q: %w", name, err)
	}

	free, err := ring.New[T](cfg.InitialSize)
	if err != nil {
		return nil, fmt.Errorf("pool %q: %w", name, err)
	}

	p := &Pool[T]{
		name:      name,
		allocator: allocator,
		reset:     reset,
		free:      free,
		active:    make(map[T]struct{}, cfg.InitialSize),
		config:    cfg,
		log:       slog.Default().With("pool", name),
	}

	for range cfg.InitialSize {
		obj := p.allocator()
		p.stats.objectsCreated.Add(1)
		if err := p.free.Write(obj); err != nil {
			return nil, fmt.Errorf("pool %q: pre-warm failed: %w", name, err)
		}
	}

	return p, nil
}

// Acquire returns an object from the free list when one is available,
// otherwise a newly constructed one. The object is marked active and is
// owned by the caller until it is released.
func (p *Pool[T]) Acquire() T {
	p.stats.totalAcquires.Add(1)

	obj, err := p.free.Read()
	if err != nil {
		obj = p.allocator()
		p.stats.objectsCreated.Add(1)
		p.logIfVerbose("allocated new object", "created", p.stats.objectsCreated.Load())
	} else {
		p.stats.objectsReused.Add(1)
	}

	p.active[obj] = struct{}{}
	p.updatePeakActive()
	return obj
}

// Release returns obj to the pool. Misuse (double release, release of
// an object this pool never handed out) is logged as a warning and is a
// no-op; it reports false but never corrupts pool state. The reset
// function runs before the object re-enters the free list.
func (p *Pool[T]) Release(obj T) bool {
	if _, ok := p.active[obj]; !ok {
		p.stats.misuseReleases.Add(1)
		p.log.Warn("release of object not active in this pool, ignoring")
		return false
	}

	delete(p.active, obj)
	p.stats.totalReleases.Add(1)
	p.reset(obj)
	p.store(obj)
	return true
}

// ReleaseAll forces every active object back to the free list. Used on
// scene teardown.
func (p *Pool[T]) ReleaseAll() {
	for obj := range p.active {
		delete(p.active, obj)
		p.stats.totalReleases.Add(1)
		p.reset(obj)
		p.store(obj)
	}
}

// store writes obj into the free list, growing it when full. Past the
// hard limit the object is discarded; the release still succeeded from
// the caller's point of view.
func (p *Pool[T]) store(obj T) {
	if err := p.free.Write(obj); err == nil {
		return
	}

	if p.free.Cap() >= p.config.HardLimit {
		p.stats.discarded.Add(1)
		p.logIfVerbose("free list at hard limit, discarding object", "hardLimit", p.config.HardLimit)
		return
	}

	p.grow()
	if err := p.free.Write(obj); err != nil {
		// Cannot happen: grow always adds at least one free slot.
		p.stats.discarded.Add(1)
	}
}

// grow migrates the free list into a larger buffer, doubling capacity
// up to the hard limit.
func (p *Pool[T]) grow() {
	newCapacity := min(p.free.Cap()*2, p.config.HardLimit)

	bigger, err := ring.New[T](newCapacity)
	if err != nil {
		return
	}

	for {
		obj, err := p.free.Read()
		if err != nil {
			break
		}
		if err := bigger.Write(obj); err != nil {
			break
		}
	}

	p.free = bigger
	p.logIfVerbose("free list grown", "capacity", newCapacity)
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() StatsSnapshot {
	return p.snapshotStats()
}

// Name returns the pool's registry name.
func (p *Pool[T]) Name() string {
	return p.name
}

// Close drops every object the pool holds, free and active alike. The
// pool must not be used afterwards.
func (p *Pool[T]) Close() {
	p.free.Reset()
	clear(p.active)
	p.closed = true
}

func (p *Pool[T]) logIfVerbose(msg string, args ...any) {
	if p.config.Verbose {
		p.log.Debug(msg, args...)
	}
}

// handle adapters implementing the registry's untyped surface.

func (p *Pool[T]) acquireAny() any {
	return p.Acquire()
}

func (p *Pool[T]) releaseAny(obj any) bool {
	typed, ok := obj.(T)
	if !ok {
		p.stats.misuseReleases.Add(1)
		p.log.Warn("release of wrong object type, ignoring", "got", fmt.Sprintf("%T", obj))
		return false
	}
	return p.Release(typed)
}

func (p *Pool[T]) releaseAllAny() {
	p.ReleaseAll()
}

func (p *Pool[T]) statsAny() StatsSnapshot {
	return p.Stats()
}

func (p *Pool[T]) closeAny() {
	p.Close()
}
