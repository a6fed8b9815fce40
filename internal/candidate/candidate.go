// Package candidate implements the broad-phase candidate-list refinement:
// given (triangle, cell) pairs at one resolution, it produces the pairs
// that survive subdivision to the next resolution, via the two-pass
// race-tolerant tile compaction described for this rasterizer.
package candidate

import "github.com/soypat/voxsdf/internal/grid"

// List is a candidate list: parallel triangle-index and grid-key arrays.
// Order carries no meaning and is not deduplicated.
type List struct {
	Idx  []int32
	Grid []grid.Key
}

// Len returns the number of (triangle, cell) pairs in the list.
func (l List) Len() int { return len(l.Idx) }

// Seed builds the level-0 candidate list for a batch of f triangles
// starting at global index offset: every triangle paired with the single
// root cell at resolution 1.
func Seed(offset, f int32) List {
	l := List{Idx: make([]int32, f), Grid: make([]grid.Key, f)}
	root := grid.Pack(0, 0, 0)
	for i := int32(0); i < f; i++ {
		l.Idx[i] = offset + i
		l.Grid[i] = root
	}
	return l
}

// Options configures the tile-parallel execution of Refine.
type Options struct {
	// TileSize is the number of tasks grouped per tile. Zero selects
	// device.DefaultTileSize.
	TileSize int
	// Workers bounds how many tiles run concurrently. Zero selects
	// runtime.GOMAXPROCS(0).
	Workers int
}
