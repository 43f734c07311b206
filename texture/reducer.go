// Package texture produces quality-adjusted texture variants keyed by
// the global quality tier. Optimization is lazy: changing the tier only
// clears the cache, and variants regenerate on the next request.
package texture

import (
	"log/slog"

	"github.com/sayantanmandal1/EarnToDie-sub005/quality"
)

// Texture is an abstract handle to a source image. Pixel data and GPU
// upload belong to the rendering collaborator.
type Texture struct {
	ID      string
	Width   int
	Height  int
	Mipmaps bool
	Format  Format
}

// TierSettings is the fixed per-tier reduction table entry.
type TierSettings struct {
	MaxDimension int
	HighQuality  bool // sampling quality when downscaling
	Mipmaps      bool
}

// tierTable maps each quality tier to its reduction settings.
var tierTable = map[quality.Tier]TierSettings{
	quality.TierUltra:  {MaxDimension: 2048, HighQuality: true, Mipmaps: true},
	quality.TierHigh:   {MaxDimension: 1024, HighQuality: true, Mipmaps: true},
	quality.TierMedium: {MaxDimension: 512, HighQuality: false, Mipmaps: true},
	quality.TierLow:    {MaxDimension: 256, HighQuality: false, Mipmaps: false},
}

// SettingsFor returns the reduction settings for a tier. Unknown tiers
// get the low-tier settings.
func SettingsFor(t quality.Tier) TierSettings {
	if s, ok := tierTable[t]; ok {
		return s
	}
	return tierTable[quality.TierLow]
}

// Options overrides the tier settings for a single optimization.
type Options struct {
	// MaxDimension caps the longest side; 0 uses the tier default.
	MaxDimension int
	// DisableMipmaps drops the mip chain regardless of tier.
	DisableMipmaps bool
}

// key is the structural composite the cache is keyed by: source
// identity plus every input that affects the output variant.
type key struct {
	id     string
	tier   quality.Tier
	maxDim int
	noMips bool
}

// CacheStats describes the cache's effectiveness.
type CacheStats struct {
	Entries       int
	Hits          uint64
	Misses        uint64
	Invalidations uint64
}

// Reducer caches quality-adjusted variants per (source, tier, options).
type Reducer struct {
	tier  quality.Tier
	caps  HardwareCaps
	cache map[key]*Texture
	stats CacheStats
	log   *slog.Logger
}

// NewReducer creates a reducer at the given tier with the given
// hardware capabilities.
func NewReducer(tier quality.Tier, caps HardwareCaps) *Reducer {
	if !tier.Valid() {
		tier = quality.TierHigh
	}
	return &Reducer{
		tier:  tier,
		caps:  caps,
		cache: make(map[key]*Texture),
		log:   slog.Default().With("component", "texture_reducer"),
	}
}

// Quality returns the tier the reducer currently optimizes for.
func (r *Reducer) Quality() quality.Tier {
	return r.tier
}

// SetQuality switches the reducer to a new tier and invalidates the
// cache, so subsequent Optimize calls regenerate at the new tier.
// TierAuto and no-op tier changes leave the cache alone.
func (r *Reducer) SetQuality(tier quality.Tier) {
	if !tier.Valid() || tier == r.tier {
		return
	}
	r.tier = tier
	r.stats.Invalidations++
	clear(r.cache)
	r.log.Debug("texture cache invalidated", "tier", tier.String())
}

// Optimize returns the cached variant of tex for the current tier and
// options, computing it on first request. Identical repeated calls
// return the same instance.
func (r *Reducer) Optimize(tex *Texture, opts Options) *Texture {
	if tex == nil {
		return nil
	}

	settings := SettingsFor(r.tier)
	maxDim := settings.MaxDimension
	if opts.MaxDimension > 0 && opts.MaxDimension < maxDim {
		maxDim = opts.MaxDimension
	}

	k := key{id: tex.ID, tier: r.tier, maxDim: maxDim, noMips: opts.DisableMipmaps}
	if cached, ok := r.cache[k]; ok {
		r.stats.Hits++
		return cached
	}
	r.stats.Misses++

	w, h := clampDimensions(tex.Width, tex.Height, maxDim)
	variant := &Texture{
		ID:      tex.ID,
		Width:   w,
		Height:  h,
		Mipmaps: settings.Mipmaps && !opts.DisableMipmaps,
		Format:  SelectFormat(r.caps),
	}

	r.cache[k] = variant
	return variant
}

// clampDimensions scales (w, h) so the longest side fits maxDim,
// preserving aspect ratio. Textures already inside the cap are not
// upscaled.
func clampDimensions(w, h, maxDim int) (int, int) {
	if w <= 0 || h <= 0 || maxDim <= 0 {
		return w, h
	}

	longest := max(w, h)
	if longest <= maxDim {
		return w, h
	}

	scale := float64(maxDim) / float64(longest)
	sw := int(float64(w) * scale)
	sh := int(float64(h) * scale)
	return max(sw, 1), max(sh, 1)
}

// Stats returns a snapshot of the cache counters.
func (r *Reducer) Stats() CacheStats {
	s := r.stats
	s.Entries = len(r.cache)
	return s
}

// Clear empties the cache without changing the tier.
func (r *Reducer) Clear() {
	clear(r.cache)
}
