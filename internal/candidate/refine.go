package candidate

import (
	"math"
	"sync/atomic"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/voxsdf/internal/device"
	"github.com/soypat/voxsdf/internal/geom"
	"github.com/soypat/voxsdf/internal/grid"
)

// inclusionRadius returns the distance from a cell's center within which a
// triangle keeps the cell: roughly half of a cell's space diagonal at
// resolution n, approximated by the constant 0.87, plus the caller's band.
func inclusionRadius(n int32, band float32) float32 {
	return 0.87/float32(n) + band
}

// Refine takes the candidate list at resolution n/s (one cell per entry)
// and returns the list of (triangle, child-cell) pairs at resolution n,
// the resolution after this step, whose child cell is close enough to its
// triangle to warrant further subdivision or a narrow-phase visit.
//
// It runs the two-pass tile compaction: a probe pass counts, per tile,
// how many of the tile's tasks pass the distance test and reserves a
// disjoint slab of the output via a single atomic add to a shared
// counter, then a fill pass recomputes the same test and writes each
// passing task into its tile's reserved slab. Tile execution order is
// unspecified, so the slab a given tile receives depends on goroutine
// scheduling, not on tile index — the result set is correct regardless,
// since every tile's slab is disjoint and exactly sized to its own count.
//
// overflowed reports whether the task space (len(list)*s^3) exceeded the
// 32-bit range; Refine still computes a correct result using 64-bit task
// indices throughout, but a caller that sees overflowed should reduce its
// batch size for subsequent levels to keep per-level task counts in range.
func Refine(list List, tris []geom.Triangle, s int32, n int32, band float32, opts Options) (out List, overflowed bool, err error) {
	m := int64(len(list.Idx))
	if m == 0 {
		return List{}, false, nil
	}
	s3 := int64(s) * int64(s) * int64(s)
	total := m * s3
	overflowed = total > math.MaxInt32

	tileSize := opts.TileSize
	if tileSize <= 0 {
		tileSize = device.DefaultTileSize
	}
	numTiles := (total + int64(tileSize) - 1) / int64(tileSize)

	thresh := inclusionRadius(n, band)
	thresh2 := thresh * thresh

	// predicate decodes task t into its (triangle, child cell) pair and
	// reports whether that pair survives to the next level.
	predicate := func(t int64) (pass bool, triIdx int32, childKey grid.Key) {
		candIdx := t / s3
		rem := t % s3
		ss := int64(s)
		i := int32(rem / (ss * ss))
		rem -= int64(i) * ss * ss
		j := int32(rem / ss)
		k := int32(rem - int64(j)*ss)

		triIdx = list.Idx[candIdx]
		childKey = grid.Scale(list.Grid[candIdx], s, i, j, k)
		cx, cy, cz := grid.Center(childKey, n)
		center := ms3.Vec{X: cx, Y: cy, Z: cz}
		d2 := geom.PointTriDist2(tris[triIdx], center)
		return d2 < thresh2, triIdx, childKey
	}

	tileOffsets := make([]int32, numTiles)
	var globalTotal atomic.Int32

	device.RunTiles(total, tileSize, opts.Workers, func(start, end int64) {
		tileIdx := start / int64(tileSize)
		var local int32
		for t := start; t < end; t++ {
			if pass, _, _ := predicate(t); pass {
				local++
			}
		}
		if local > 0 {
			tileOffsets[tileIdx] = globalTotal.Add(local) - local
		}
	})

	out = List{
		Idx:  make([]int32, globalTotal.Load()),
		Grid: make([]grid.Key, globalTotal.Load()),
	}

	device.RunTiles(total, tileSize, opts.Workers, func(start, end int64) {
		tileIdx := start / int64(tileSize)
		base := tileOffsets[tileIdx]
		var slot int32
		for t := start; t < end; t++ {
			pass, triIdx, childKey := predicate(t)
			if !pass {
				continue
			}
			pos := base + slot
			slot++
			out.Idx[pos] = triIdx
			out.Grid[pos] = childKey
		}
	})

	return out, overflowed, nil
}
