// Package voxsdf rasterizes a triangle mesh onto a dense R×R×R voxel grid,
// writing the unsigned distance from each voxel's center to the nearest
// triangle plus one of two auxiliary fields used by downstream
// inside/outside classification.
//
// The pipeline is a hierarchical broad phase (internal/candidate) that
// refines a (triangle, cell) candidate list through successive
// subdivisions planned by internal/plan, followed by a narrow-phase
// reduction (raster) that writes the final per-voxel result. Both phases
// are expressed as flat sets of independent tasks grouped into tiles and
// run across a goroutine pool (internal/device), simulating on the host
// CPU the massively parallel accelerator model this algorithm is designed
// for; an optional GPU backend (package gpu) runs the narrow phase's
// point-triangle distance kernel on actual compute-shader hardware.
package voxsdf

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/voxsdf/gpu"
	"github.com/soypat/voxsdf/internal/candidate"
	"github.com/soypat/voxsdf/internal/geom"
	"github.com/soypat/voxsdf/internal/grid"
	"github.com/soypat/voxsdf/internal/plan"
	"github.com/soypat/voxsdf/raster"
)

// Backend selects where the narrow phase's point-triangle distance kernel
// runs. It does not change the broad phase, which always runs on the CPU
// tile executor (internal/device).
type Backend uint8

const (
	// BackendCPU evaluates the distance kernel with internal/geom directly
	// on the host, via the same tile executor as the broad phase.
	BackendCPU Backend = iota
	// BackendGPU evaluates the distance kernel in a single batched
	// compute-shader dispatch (package gpu) using Config.GPU.
	BackendGPU
)

// Triangle is three vertices in single precision. Coordinates should lie
// in [0,1]³ for meaningful output; triangles outside the unit cube are
// legal input but only ever produce large distances.
type Triangle = geom.Triangle

// Vec is a single-precision 3D vector, the coordinate type triangles are
// built from.
type Vec = ms3.Vec

// Variant selects the auxiliary field Rasterize populates alongside the
// distance grid. There is no default: callers must choose explicitly
// between the collide-triple and repIdx outputs.
type Variant = raster.Variant

const (
	// VariantCollide populates Result.Collide: a ray-hit flag per axis
	// per voxel, for downstream parity-based inside/outside tests.
	VariantCollide = raster.VariantCollide
	// VariantRepIdx populates Result.RepIdx: the tie-broken nearest
	// triangle index per voxel.
	VariantRepIdx = raster.VariantRepIdx
)

// DefaultBatch is the batch size used when Config.Batch is zero.
const DefaultBatch = 131072

var (
	// ErrResolutionOutOfRange is returned when R is outside [1,1024].
	ErrResolutionOutOfRange = errors.New("voxsdf: resolution out of range [1,1024]")
	// ErrNegativeBand is returned when Config.Band is negative.
	ErrNegativeBand = errors.New("voxsdf: band must be non-negative")
	// ErrInvalidBatch is returned when Config.Batch is negative.
	ErrInvalidBatch = errors.New("voxsdf: batch size must be non-negative")
	// ErrVariantRequired is returned when Config.Variant is left unset.
	ErrVariantRequired = errors.New("voxsdf: Config.Variant is required, it has no default")
	// ErrGPURequired is returned when Config.Backend is BackendGPU but
	// Config.GPU is nil.
	ErrGPURequired = errors.New("voxsdf: Config.Backend is BackendGPU but Config.GPU is nil")
)

// Config controls a single Rasterize call.
type Config struct {
	// Band widens the set of voxels that receive a real (non-sentinel)
	// distance: voxels farther than Band+half-diagonal(R) from every
	// triangle are left at the sentinel.
	Band float32
	// Batch is the maximum number of triangles refined together in one
	// broad-phase pass; the final candidates of all batches are reduced
	// into the shared grid once, after the last batch. Zero selects
	// DefaultBatch.
	Batch int
	// Variant selects the auxiliary output field. Required: there is no
	// default, and leaving it unset is a configuration error.
	Variant Variant
	// Workers bounds how many tiles run concurrently per phase. Zero
	// selects runtime.GOMAXPROCS(0).
	Workers int
	// Backend selects the narrow phase's distance-kernel backend. Zero
	// value is BackendCPU.
	Backend Backend
	// GPU is the compiled compute-shader evaluator to use when
	// Backend == BackendGPU. The caller owns its GL context lifetime
	// (see package gpu); Rasterize never creates
	// one itself.
	GPU *gpu.Evaluator
}

// Result is the dense output of Rasterize.
type Result struct {
	R int
	// Dist[to_linear(x,y,z,R)] is the Euclidean distance from voxel
	// (x,y,z)'s center to the nearest triangle, or the sentinel 1e9 if no
	// triangle came within Band plus about half a voxel diagonal (0.87/R)
	// of that voxel's center.
	Dist []float32
	// Collide is populated when Variant == VariantCollide.
	Collide [][3]bool
	// RepIdx is populated when Variant == VariantRepIdx.
	RepIdx []int32
	// Warnings collects non-fatal diagnostics, e.g. a refinement level's
	// task count exceeded 32-bit range: the result is still correct, but
	// a caller doing many runs may want to shrink its batch size.
	Warnings []string
}

// Rasterize computes the dense distance field and auxiliary output for
// tris at resolution r.
//
// Configuration errors (bad r, negative band, negative batch) are
// returned before any work starts. A device-phase failure, were the CPU
// backend capable of one, would be wrapped identifying the failing phase;
// the CPU backend in this package has no failure mode past config
// validation, since goroutine scheduling and slice allocation do not fail
// the way a GPU kernel launch can (see package gpu for the backend where
// device errors are real).
func Rasterize(tris []Triangle, r int, cfg Config) (Result, error) {
	if r < 1 || r > 1024 {
		return Result{}, ErrResolutionOutOfRange
	}
	if cfg.Band < 0 {
		return Result{}, ErrNegativeBand
	}
	if cfg.Batch < 0 {
		return Result{}, ErrInvalidBatch
	}
	if !cfg.Variant.Valid() {
		return Result{}, ErrVariantRequired
	}
	if cfg.Backend == BackendGPU && cfg.GPU == nil {
		return Result{}, ErrGPURequired
	}
	batch := cfg.Batch
	if batch == 0 {
		batch = DefaultBatch
	}

	levels, err := plan.Levels(r)
	if err != nil {
		return Result{}, fmt.Errorf("voxsdf: phase plan: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outGrid := raster.NewGrid(r, cfg.Variant)
	var warnings []string

	// Every batch's refinement runs to completion (seed through all
	// levels) before any reduction happens. Variant B's repIdx tie-break
	// compares against the fully reduced minimum at each voxel, which
	// must be stable across every batch's contribution before the
	// equality test runs anywhere — so final candidate lists accumulate
	// here and Reduce runs once, after the last batch, rather than once
	// per batch. Final-level lists are bounded by mesh surface area, not
	// by batch size, so this does not reintroduce the memory blowup
	// batching exists to avoid.
	var final candidate.List

	for offset := 0; offset < len(tris); offset += batch {
		end := offset + batch
		if end > len(tris) {
			end = len(tris)
		}
		f := int32(end - offset)
		if f == 0 {
			continue
		}

		list := candidate.Seed(int32(offset), f)
		n := int32(1)
		for _, s := range levels {
			var overflowed bool
			list, overflowed, err = candidate.Refine(list, tris, int32(s), n*int32(s), cfg.Band, candidate.Options{Workers: workers})
			if err != nil {
				return Result{}, fmt.Errorf("voxsdf: phase refine: %w", err)
			}
			n *= int32(s)
			if overflowed {
				warnings = append(warnings, fmt.Sprintf("batch [%d,%d): task count overflowed 32-bit range at resolution %d; consider a smaller Config.Batch", offset, end, n))
			}
			if list.Len() == 0 {
				break
			}
		}

		final.Idx = append(final.Idx, list.Idx...)
		final.Grid = append(final.Grid, list.Grid...)
	}

	reduceOpts := raster.Options{Workers: workers}
	if cfg.Backend == BackendGPU && final.Len() > 0 {
		points := make([]ms3.Vec, final.Len())
		pairTris := make([]ms3.Triangle, final.Len())
		for i, key := range final.Grid {
			cx, cy, cz := grid.Center(key, int32(r))
			points[i] = ms3.Vec{X: cx, Y: cy, Z: cz}
			pairTris[i] = tris[final.Idx[i]]
		}
		dist2 := make([]float32, final.Len())
		if err := cfg.GPU.EvaluatePairs(points, pairTris, dist2); err != nil {
			return Result{}, fmt.Errorf("voxsdf: phase gpu-reduce: %w", err)
		}
		reduceOpts.Dist2 = dist2
	}
	raster.Reduce(outGrid, final, tris, cfg.Variant, reduceOpts)

	return Result{
		R:        r,
		Dist:     outGrid.Dist(),
		Collide:  outGrid.Collide,
		RepIdx:   outGrid.RepIdx,
		Warnings: warnings,
	}, nil
}
