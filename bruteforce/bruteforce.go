// Package bruteforce provides reference distance-field implementations
// used to validate Rasterize's output: a literal O(F) nearest-triangle
// scan for small meshes, and a k-d tree accelerated lookup for meshes too
// large to scan exhaustively per query.
package bruteforce

import (
	"github.com/chewxy/math32"
	"github.com/soypat/voxsdf/internal/geom"
)

// Dist returns the exact Euclidean distance from p to the nearest of
// tris, by scanning every triangle. O(len(tris)) per call; intended for
// small meshes in tests, not as a production code path.
func Dist(tris []geom.Triangle, p geom.Vec) float32 {
	if len(tris) == 0 {
		return math32.Inf(1)
	}
	best := math32.Inf(1)
	for _, tri := range tris {
		d2 := geom.PointTriDist2(tri, p)
		if d2 < best {
			best = d2
		}
	}
	return math32.Sqrt(best)
}

// Nearest returns the index of the triangle in tris closest to p and the
// exact distance to it, by scanning every triangle.
func Nearest(tris []geom.Triangle, p geom.Vec) (idx int, dist float32) {
	best := math32.Inf(1)
	bestIdx := -1
	for i, tri := range tris {
		d2 := geom.PointTriDist2(tri, p)
		if d2 < best {
			best = d2
			bestIdx = i
		}
	}
	return bestIdx, math32.Sqrt(best)
}
