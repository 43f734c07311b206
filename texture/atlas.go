package texture

import (
	"errors"
	"fmt"
)

// Rect is a normalized UV rectangle inside an atlas.
type Rect struct {
	U, V float64 // top-left corner
	W, H float64 // extent
}

// AtlasResult reports where each included texture landed and which
// entries were dropped for not fitting.
type AtlasResult struct {
	Size    int
	UVs     map[string]Rect
	Dropped []string
}

// BuildAtlas packs the textures into one square target of the given
// size using first-fit row packing: advance X until the row overflows,
// then wrap to a new row sized to the tallest item placed in the
// previous row. Entries that do not fit are dropped with a warning and
// listed in the result; insertion order is preserved, no sorting.
func (r *Reducer) BuildAtlas(textures []*Texture, atlasSize int) (*AtlasResult, error) {
	if atlasSize <= 0 {
		return nil, errors.New("texture: atlas size must be greater than 0")
	}
	if len(textures) == 0 {
		return nil, errors.New("texture: no textures to pack")
	}

	result := &AtlasResult{
		Size: atlasSize,
		UVs:  make(map[string]Rect, len(textures)),
	}

	x, y, rowHeight := 0, 0, 0
	size := float64(atlasSize)

	for i, tex := range textures {
		if tex == nil {
			continue
		}
		if tex.ID == "" {
			return nil, fmt.Errorf("texture: entry %d has no ID", i)
		}

		w, h := tex.Width, tex.Height
		if w <= 0 || h <= 0 || w > atlasSize || h > atlasSize {
			r.drop(result, tex.ID, "dimensions exceed atlas")
			continue
		}

		if x+w > atlasSize {
			// Wrap to a new row under the tallest item so far.
			x = 0
			y += rowHeight
			rowHeight = 0
		}

		if y+h > atlasSize {
			r.drop(result, tex.ID, "atlas is full")
			continue
		}

		result.UVs[tex.ID] = Rect{
			U: float64(x) / size,
			V: float64(y) / size,
			W: float64(w) / size,
			H: float64(h) / size,
		}

		x += w
		if h > rowHeight {
			rowHeight = h
		}
	}

	return result, nil
}

func (r *Reducer) drop(result *AtlasResult, id, reason string) {
	result.Dropped = append(result.Dropped, id)
	r.log.Warn("texture dropped from atlas", "id", id, "reason", reason)
}
