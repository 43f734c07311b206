package pool

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrPoolNotFound is returned when acquire/release names a pool that
	// was never created. This is a wiring bug in the caller, not a
	// runtime condition, so it is surfaced loudly instead of logged.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolExists is returned when creating a pool under a name that
	// is already registered.
	ErrPoolExists = errors.New("pool already exists")

	// ErrRegistryClosed is returned after ClearAll has disposed the registry.
	ErrRegistryClosed = errors.New("pool registry is closed")
)

// anyPool is the untyped surface a Registry needs from each Pool[T].
type anyPool interface {
	acquireAny() any
	releaseAny(obj any) bool
	releaseAllAny()
	statsAny() StatsSnapshot
	closeAny()
}

// Registry is a named collection of pools. Gameplay code acquires and
// releases transient objects through it instead of constructing them
// directly. One registry is scoped to one running simulation instance.
type Registry struct {
	pools  map[string]anyPool
	closed bool
	log    *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		pools: make(map[string]anyPool),
		log:   slog.Default().With("component", "pool_registry"),
	}
}

// CreatePool constructs a Pool[T] under the given name and registers
// it. The pool pre-warms cfg.InitialSize instances. It is a free
// function because Go methods cannot carry their own type parameters.
func CreatePool[T comparable](r *Registry, name string, allocator func() T, reset func(T), cfg Config) (*Pool[T], error) {
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if _, ok := r.pools[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrPoolExists, name)
	}

	p, err := NewPool(name, allocator, reset, cfg)
	if err != nil {
		return nil, err
	}

	r.pools[name] = p
	r.log.Debug("pool created", "name", name, "initialSize", p.config.InitialSize)
	return p, nil
}

// Get returns the typed pool registered under name, or false when the
// name is unknown or holds a pool of a different type.
func Get[T comparable](r *Registry, name string) (*Pool[T], bool) {
	entry, ok := r.pools[name]
	if !ok {
		return nil, false
	}
	p, ok := entry.(*Pool[T])
	return p, ok
}

// Acquire dispatches to the named pool.
func (r *Registry) Acquire(name string) (any, error) {
	if r.closed {
		return nil, ErrRegistryClosed
	}
	entry, ok := r.pools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPoolNotFound, name)
	}
	return entry.acquireAny(), nil
}

// Release dispatches to the named pool. An unknown pool name is an
// error; per-pool misuse (double release, foreign object) is merely
// logged by the pool itself.
func (r *Registry) Release(name string, obj any) error {
	if r.closed {
		return ErrRegistryClosed
	}
	entry, ok := r.pools[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPoolNotFound, name)
	}
	entry.releaseAny(obj)
	return nil
}

// Contains reports whether a pool is registered under name.
func (r *Registry) Contains(name string) bool {
	_, ok := r.pools[name]
	return ok
}

// Len returns the number of registered pools.
func (r *Registry) Len() int {
	return len(r.pools)
}

// AllStats aggregates every pool's counters for observability.
func (r *Registry) AllStats() map[string]StatsSnapshot {
	out := make(map[string]StatsSnapshot, len(r.pools))
	for name, entry := range r.pools {
		out[name] = entry.statsAny()
	}
	return out
}

// ReleaseAll forces every active object in every pool back to its free
// list. Used on scene teardown; the pools stay registered.
func (r *Registry) ReleaseAll() {
	for _, entry := range r.pools {
		entry.releaseAllAny()
	}
}

// ClearAll disposes every pool's objects and removes all pools. Used at
// subsystem shutdown; the registry cannot be reused afterwards.
func (r *Registry) ClearAll() {
	for name, entry := range r.pools {
		entry.closeAny()
		delete(r.pools, name)
	}
	r.closed = true
}
