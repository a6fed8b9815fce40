// Package raster implements the narrow-phase reduction: turning a final,
// fully-refined candidate list into the dense per-voxel output grid.
package raster

import (
	"math"

	"github.com/soypat/voxsdf/internal/device"
)

// sentinel is the initial distance of every voxel, chosen
// comfortably above any distance that can occur in the unit cube.
const sentinel float32 = 1e9

// Grid is the dense R×R×R output of the rasterizer: a minimum-distance
// field plus one of the two auxiliary fields selected by Variant.
type Grid struct {
	R int

	// distBits holds math.Float32bits(dist) per voxel so AtomicMinFloat32Bits
	// can operate on it directly; Dist() decodes to a []float32 view.
	distBits []uint32

	// Collide is populated when Variant is VariantCollide: three
	// ray-hit flags per voxel, one per axis.
	Collide [][3]bool

	// RepIdx is populated when Variant is VariantRepIdx: the
	// tie-broken representative triangle index per voxel, or -1.
	RepIdx []int32
}

// NewGrid allocates a dense grid of side r with every voxel at the
// sentinel distance and, depending on variant, cleared collide flags or
// repIdx initialized to -1.
func NewGrid(r int, variant Variant) *Grid {
	n := r * r * r
	g := &Grid{R: r, distBits: make([]uint32, n)}
	bits := math.Float32bits(sentinel)
	for i := range g.distBits {
		g.distBits[i] = bits
	}
	switch variant {
	case VariantCollide:
		g.Collide = make([][3]bool, n)
	case VariantRepIdx:
		g.RepIdx = make([]int32, n)
		for i := range g.RepIdx {
			g.RepIdx[i] = -1
		}
	}
	return g
}

// Dist decodes the grid's raw atomic-min storage into a plain []float32,
// one value per voxel in to_linear order. The returned slice is a copy;
// mutating it does not affect the grid.
func (g *Grid) Dist() []float32 {
	out := make([]float32, len(g.distBits))
	for i, b := range g.distBits {
		out[i] = math.Float32frombits(b)
	}
	return out
}

func (g *Grid) atomicMinDist(linear int64, d float32) {
	device.AtomicMinFloat32Bits(&g.distBits[linear], d)
}

func (g *Grid) distAt(linear int64) float32 {
	return math.Float32frombits(g.distBits[linear])
}
