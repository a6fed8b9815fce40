package bruteforce

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/voxsdf/internal/geom"
)

func TestDistEmpty(t *testing.T) {
	d := Dist(nil, geom.Vec{})
	if !math32.IsInf(d, 1) {
		t.Errorf("Dist(nil, ...) = %f, want +Inf", d)
	}
}

func TestDistAndNearestAgree(t *testing.T) {
	tris := []geom.Triangle{
		{geom.Vec{X: 0, Y: 0, Z: 0}, geom.Vec{X: 1, Y: 0, Z: 0}, geom.Vec{X: 0, Y: 1, Z: 0}},
		{geom.Vec{X: 5, Y: 5, Z: 5}, geom.Vec{X: 6, Y: 5, Z: 5}, geom.Vec{X: 5, Y: 6, Z: 5}},
	}
	p := geom.Vec{X: 0.1, Y: 0.1, Z: 0.1}
	d := Dist(tris, p)
	idx, d2 := Nearest(tris, p)
	if idx != 0 {
		t.Errorf("Nearest idx = %d, want 0", idx)
	}
	if math32.Abs(d-d2) > 1e-6 {
		t.Errorf("Dist=%f Nearest dist=%f disagree", d, d2)
	}
}

func TestKDTreeNearestMatchesBruteForceOnUniformMesh(t *testing.T) {
	// A regular grid of small, well-separated triangles: centroid-nearest
	// and surface-nearest coincide exactly here, so the approximate k-d
	// tree lookup must agree with the exhaustive scan.
	var tris []geom.Triangle
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			x, y := float32(i), float32(j)
			tris = append(tris, geom.Triangle{
				geom.Vec{X: x, Y: y, Z: 0},
				geom.Vec{X: x + 0.3, Y: y, Z: 0},
				geom.Vec{X: x, Y: y + 0.3, Z: 0},
			})
		}
	}
	tree := New(tris)
	for _, q := range []geom.Vec{{X: 1.05, Y: 1.05}, {X: 0, Y: 0}, {X: 3.1, Y: 3.1}} {
		wantIdx, wantDist := Nearest(tris, q)
		gotIdx, gotDist := tree.Nearest(q)
		if gotIdx != wantIdx {
			t.Errorf("q=%v: kd idx=%d, brute idx=%d", q, gotIdx, wantIdx)
		}
		if math32.Abs(gotDist-wantDist) > 1e-5 {
			t.Errorf("q=%v: kd dist=%f, brute dist=%f", q, gotDist, wantDist)
		}
	}
}
