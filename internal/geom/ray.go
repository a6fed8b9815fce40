package geom

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// rayParallelTol is the |d·n|-style epsilon below which a ray is considered
// parallel to the triangle's plane.
const rayParallelTol = 1e-8

// RayTriHitDist returns the parametric distance t along the ray o + t·d at
// which it enters the closed triangle tri, or +Inf if there is no hit.
//
// d must be one of the three unit axis directions. Back-face hits count
// (no culling by winding order); a ray parallel to the triangle's plane, or
// a hit behind the ray's origin (t < 0), both return +Inf.
//
// Implements the Möller–Trumbore ray-triangle intersection test.
func RayTriHitDist(tri Triangle, o ms3.Vec, d ms3.Vec) float32 {
	inf := math32.Inf(1)
	a, b, c := tri[0], tri[1], tri[2]
	edge1 := ms3.Sub(b, a)
	edge2 := ms3.Sub(c, a)
	h := ms3.Cross(d, edge2)
	det := ms3.Dot(edge1, h)
	if math32.Abs(det) < rayParallelTol {
		return inf
	}
	f := 1 / det
	s := ms3.Sub(o, a)
	u := f * ms3.Dot(s, h)
	if u < 0 || u > 1 {
		return inf
	}
	q := ms3.Cross(s, edge1)
	v := f * ms3.Dot(d, q)
	if v < 0 || u+v > 1 {
		return inf
	}
	t := f * ms3.Dot(edge2, q)
	if t < 0 {
		return inf
	}
	return t
}
