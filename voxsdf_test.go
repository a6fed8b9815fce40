package voxsdf

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/voxsdf/bruteforce"
	"github.com/soypat/voxsdf/internal/grid"
)

func TestRasterizeRejectsBadConfig(t *testing.T) {
	tri := []Triangle{{}}
	if _, err := Rasterize(tri, 0, Config{Variant: VariantRepIdx}); err != ErrResolutionOutOfRange {
		t.Errorf("R=0: got %v, want ErrResolutionOutOfRange", err)
	}
	if _, err := Rasterize(tri, 1025, Config{Variant: VariantRepIdx}); err != ErrResolutionOutOfRange {
		t.Errorf("R=1025: got %v, want ErrResolutionOutOfRange", err)
	}
	if _, err := Rasterize(tri, 8, Config{Band: -1, Variant: VariantRepIdx}); err != ErrNegativeBand {
		t.Errorf("band<0: got %v, want ErrNegativeBand", err)
	}
	if _, err := Rasterize(tri, 8, Config{Batch: -1, Variant: VariantRepIdx}); err != ErrInvalidBatch {
		t.Errorf("batch<0: got %v, want ErrInvalidBatch", err)
	}
	if _, err := Rasterize(tri, 8, Config{}); err != ErrVariantRequired {
		t.Errorf("no variant: got %v, want ErrVariantRequired", err)
	}
}

// A single triangle at R=8 with a 0.1 band: the voxel directly below the
// face's interior has a distance computable by hand, used here as a known-good
// check on the whole pipeline rather than just the geometry kernel.
func TestRasterizeSingleTriangleKnownDistance(t *testing.T) {
	tris := []Triangle{{
		Vec{X: 0.25, Y: 0.25, Z: 0.25},
		Vec{X: 0.75, Y: 0.25, Z: 0.25},
		Vec{X: 0.25, Y: 0.75, Z: 0.25},
	}}
	res, err := Rasterize(tris, 8, Config{Band: 0.1, Variant: VariantRepIdx})
	if err != nil {
		t.Fatal(err)
	}
	linear := grid.ToLinear(3, 3, 0, 8)
	got := res.Dist[linear]
	want := float32(0.1875)
	if d := math32.Abs(got - want); d > 1e-3 {
		t.Errorf("dist(3,3,0) = %f, want ~%f", got, want)
	}
}

// With no triangles, every voxel should be left untouched: the sentinel
// distance, an unset repIdx, and no collide flags.
func TestRasterizeEmptyMeshLeavesGridAtSentinel(t *testing.T) {
	res, err := Rasterize(nil, 4, Config{Variant: VariantRepIdx})
	if err != nil {
		t.Fatal(err)
	}
	for i, d := range res.Dist {
		if d != 1e9 {
			t.Fatalf("voxel %d: dist = %f, want sentinel", i, d)
		}
	}
	for i, idx := range res.RepIdx {
		if idx != -1 {
			t.Fatalf("voxel %d: repIdx = %d, want -1", i, idx)
		}
	}

	resA, err := Rasterize(nil, 4, Config{Variant: VariantCollide})
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range resA.Collide {
		if c[0] || c[1] || c[2] {
			t.Fatalf("voxel %d: collide = %v, want all false", i, c)
		}
	}
}

// Two coincident triangles tie on distance everywhere; repIdx must break
// the tie toward the higher index rather than leaving it ambiguous.
func TestRasterizeRepIdxTieBreaksCoincidentTriangles(t *testing.T) {
	tri := Triangle{
		Vec{X: 0.25, Y: 0.25, Z: 0.5},
		Vec{X: 0.75, Y: 0.25, Z: 0.5},
		Vec{X: 0.25, Y: 0.75, Z: 0.5},
	}
	tris := []Triangle{tri, tri}
	res, err := Rasterize(tris, 4, Config{Band: 0.5, Variant: VariantRepIdx})
	if err != nil {
		t.Fatal(err)
	}
	for i, idx := range res.RepIdx {
		if idx != -1 && idx != 1 {
			t.Errorf("voxel %d: repIdx = %d, want -1 or 1", i, idx)
		}
	}
}

// unitCube returns the 12 triangles of an axis-aligned cube spanning
// [lo,hi]³.
func unitCube(lo, hi float32) []Triangle {
	c := [8]Vec{
		{X: lo, Y: lo, Z: lo}, {X: hi, Y: lo, Z: lo}, {X: hi, Y: hi, Z: lo}, {X: lo, Y: hi, Z: lo},
		{X: lo, Y: lo, Z: hi}, {X: hi, Y: lo, Z: hi}, {X: hi, Y: hi, Z: hi}, {X: lo, Y: hi, Z: hi},
	}
	quad := func(a, b, cc, d int) [2]Triangle {
		return [2]Triangle{{c[a], c[b], c[cc]}, {c[a], c[cc], c[d]}}
	}
	faces := [][2]Triangle{
		quad(0, 1, 2, 3), quad(4, 5, 6, 7), // bottom, top
		quad(0, 1, 5, 4), quad(3, 2, 6, 7), // front, back
		quad(0, 3, 7, 4), quad(1, 2, 6, 5), // left, right
	}
	var tris []Triangle
	for _, f := range faces {
		tris = append(tris, f[0], f[1])
	}
	return tris
}

// On a watertight axis-aligned cube, a voxel's collide flag on an axis
// marks a surface crossing within 1/R ahead of its center along that axis.
// Counting the flags from a voxel onward along an axis therefore counts the
// surface crossings of a ray cast from it: odd on all three axes for every
// voxel strictly inside, and voxel (0,0,0), well outside, has no flag at all.
func TestRasterizeCollideOnWatertightCube(t *testing.T) {
	tris := unitCube(0.2, 0.8)
	res, err := Rasterize(tris, 8, Config{Band: 1, Variant: VariantCollide})
	if err != nil {
		t.Fatal(err)
	}
	crossings := func(x, y, z int32, axis int) int {
		p := [3]int32{x, y, z}
		count := 0
		for i := p[axis]; i < 8; i++ {
			p[axis] = i
			if res.Collide[grid.ToLinear(p[0], p[1], p[2], 8)][axis] {
				count++
			}
		}
		return count
	}
	for x := int32(0); x < 8; x++ {
		for y := int32(0); y < 8; y++ {
			for z := int32(0); z < 8; z++ {
				linear := grid.ToLinear(x, y, z, 8)
				inside := x >= 2 && x <= 5 && y >= 2 && y <= 5 && z >= 2 && z <= 5
				c := res.Collide[linear]
				n := 0
				if c[0] {
					n++
				}
				if c[1] {
					n++
				}
				if c[2] {
					n++
				}
				for axis := 0; axis < 3; axis++ {
					if inside && crossings(x, y, z, axis)%2 != 1 {
						t.Errorf("voxel (%d,%d,%d): strictly inside cube, axis %d: %d crossings, want an odd count", x, y, z, axis, crossings(x, y, z, axis))
					}
				}
				if x == 0 && y == 0 && z == 0 && n != 0 {
					t.Errorf("voxel (0,0,0): outside cube, collide=%v, want none", c)
				}
			}
		}
	}
}

// A single triangle spanning the mid-plane at R=1024 drives the full
// greedy factor-of-4 level sequence end to end without shrinking the
// mesh to match the resolution.
func TestRasterizeLargeResolutionFullLevelSequence(t *testing.T) {
	tris := []Triangle{{
		Vec{X: 0.1, Y: 0.1, Z: 0.5},
		Vec{X: 0.9, Y: 0.1, Z: 0.5},
		Vec{X: 0.1, Y: 0.9, Z: 0.5},
	}}
	res, err := Rasterize(tris, 1024, Config{Band: 0.01, Variant: VariantCollide})
	if err != nil {
		t.Fatal(err)
	}
	linear := grid.ToLinear(512, 512, 512, 1024)
	got := res.Dist[linear]
	if got > 0.01 {
		t.Errorf("voxel at grid center: dist = %f, want near zero (on the triangle's plane)", got)
	}
}

// Rasterize's distances must agree with an exact brute-force
// nearest-triangle scan over every in-band voxel.
func TestRasterizeAgreesWithBruteForce(t *testing.T) {
	tris := unitCube(0.3, 0.7)
	const r = 16
	res, err := Rasterize(tris, r, Config{Band: 2, Variant: VariantRepIdx})
	if err != nil {
		t.Fatal(err)
	}
	for x := int32(0); x < r; x++ {
		for y := int32(0); y < r; y++ {
			for z := int32(0); z < r; z++ {
				cx, cy, cz := grid.Center(grid.Pack(x, y, z), r)
				want := bruteforce.Dist(tris, Vec{X: cx, Y: cy, Z: cz})
				linear := grid.ToLinear(x, y, z, r)
				got := res.Dist[linear]
				if d := math32.Abs(got - want); d > 1e-4 {
					t.Errorf("voxel (%d,%d,%d): dist = %f, brute-force = %f", x, y, z, got, want)
				}
			}
		}
	}
}

func TestRasterizeBatchingInvariance(t *testing.T) {
	tris := []Triangle{
		{Vec{X: 0.2, Y: 0.2, Z: 0.5}, Vec{X: 0.8, Y: 0.2, Z: 0.5}, Vec{X: 0.8, Y: 0.8, Z: 0.5}},
		{Vec{X: 0.2, Y: 0.2, Z: 0.5}, Vec{X: 0.8, Y: 0.8, Z: 0.5}, Vec{X: 0.2, Y: 0.8, Z: 0.5}},
		{Vec{X: 0.3, Y: 0.3, Z: 0.1}, Vec{X: 0.7, Y: 0.3, Z: 0.1}, Vec{X: 0.5, Y: 0.7, Z: 0.1}},
	}
	resFull, err := Rasterize(tris, 8, Config{Band: 0.2, Batch: 3, Variant: VariantRepIdx, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	resSplit, err := Rasterize(tris, 8, Config{Band: 0.2, Batch: 1, Variant: VariantRepIdx, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	for i := range resFull.Dist {
		if math32.Abs(resFull.Dist[i]-resSplit.Dist[i]) > 1e-5 {
			t.Errorf("voxel %d: batch=3 dist %f != batch=1 dist %f", i, resFull.Dist[i], resSplit.Dist[i])
		}
	}
}
