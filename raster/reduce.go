package raster

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/voxsdf/internal/candidate"
	"github.com/soypat/voxsdf/internal/device"
	"github.com/soypat/voxsdf/internal/geom"
	"github.com/soypat/voxsdf/internal/grid"
)

// Variant selects which auxiliary field the narrow phase populates
// alongside the minimum-distance grid. The spec's design notes are
// explicit that a port must not guess between the two — callers must
// choose.
type Variant uint8

const (
	// variantUnset is the zero value: Variant is a required field and has
	// no default, so the zero value is deliberately not a valid choice.
	variantUnset Variant = iota
	// VariantCollide populates Grid.Collide: one ray-hit flag per axis.
	VariantCollide
	// VariantRepIdx populates Grid.RepIdx: the tie-broken nearest
	// triangle index per voxel.
	VariantRepIdx
)

// Valid reports whether v is one of the two defined variants.
func (v Variant) Valid() bool {
	return v == VariantCollide || v == VariantRepIdx
}

// Options configures the tile-parallel execution of Reduce.
type Options struct {
	TileSize int
	Workers  int

	// Dist2, if non-nil, supplies a precomputed squared distance for
	// every candidate in list (same indexing, same length) instead of
	// having Reduce evaluate geom.PointTriDist2 itself. This is how a
	// GPU-backed distance kernel (package gpu) feeds its batch results
	// into the otherwise-CPU reduction: the geometry kernel's evaluation
	// is swappable, the tile dispatch and atomics that make the
	// reduction itself correct are not.
	Dist2 []float32
}

// Reduce writes the final candidate list's contribution into g: for every
// (triangle, voxel) pair, atomically lowers the voxel's distance, then
// (variant-dependent) sets collide flags or contends for repIdx.
//
// variant must match the field g was allocated for. The distance minimum
// is safe to accumulate over several calls on the same g, but a call's
// repIdx pass compares against the minimum as it stands during that call,
// so a later call that lowers a voxel's distance leaves an earlier winning
// index in place. The root Rasterize entry point therefore collects every
// batch's final candidates and calls Reduce once.
func Reduce(g *Grid, list candidate.List, tris []geom.Triangle, variant Variant, opts Options) {
	if list.Len() == 0 {
		return
	}
	tileSize := opts.TileSize
	if tileSize <= 0 {
		tileSize = device.DefaultTileSize
	}
	total := int64(list.Len())
	r := int32(g.R)
	precomputed := opts.Dist2
	if precomputed != nil && len(precomputed) != list.Len() {
		panic("raster: Options.Dist2 length does not match candidate list length")
	}

	distAt := func(t int64, triIdx int32, center ms3.Vec) float32 {
		if precomputed != nil {
			return precomputed[t]
		}
		return geom.PointTriDist2(tris[triIdx], center)
	}

	// Pass 1: atomic-min the distance grid, and for Variant A set the
	// collide flags in the same pass since they don't depend on the
	// reduced minimum.
	device.RunTiles(total, tileSize, opts.Workers, func(start, end int64) {
		for t := start; t < end; t++ {
			triIdx := list.Idx[t]
			key := list.Grid[t]
			cx, cy, cz := grid.Center(key, r)
			center := ms3.Vec{X: cx, Y: cy, Z: cz}
			d2 := distAt(t, triIdx, center)
			d := math32.Sqrt(d2)
			linear := grid.LinearOf(key, r)
			g.atomicMinDist(linear, d)

			if variant == VariantCollide {
				invR := 1 / float32(r)
				for _, axis := range [3]geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
					hit := geom.RayTriHitDist(tris[triIdx], center, axis.Unit())
					if hit <= invR {
						g.Collide[linear][axis] = true
					}
				}
			}
		}
	})

	if variant != VariantRepIdx {
		return
	}

	// Pass 2 (Variant B only): after the barrier RunTiles's WaitGroup
	// already provides above, recheck each candidate against the now
	// final per-voxel minimum and atomically max the winning index in.
	device.RunTiles(total, tileSize, opts.Workers, func(start, end int64) {
		for t := start; t < end; t++ {
			triIdx := list.Idx[t]
			key := list.Grid[t]
			cx, cy, cz := grid.Center(key, r)
			center := ms3.Vec{X: cx, Y: cy, Z: cz}
			d2 := distAt(t, triIdx, center)
			d := math32.Sqrt(d2)
			linear := grid.LinearOf(key, r)
			if d == g.distAt(linear) {
				device.AtomicMaxInt32(&g.RepIdx[linear], triIdx)
			}
		}
	})
}
