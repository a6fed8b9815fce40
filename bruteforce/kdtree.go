package bruteforce

import (
	"github.com/chewxy/math32"
	"github.com/soypat/voxsdf/internal/geom"
	"gonum.org/v1/gonum/spatial/kdtree"
)

var (
	_ kdtree.Interface = kdTriangles{}
	_ kdtree.Bounder   = kdTriangles{}
)

// KDTree is a k-d tree over a fixed triangle set, partitioned by triangle
// centroid, for fast approximate nearest-triangle lookups on meshes too
// large to scan exhaustively with Dist/Nearest.
//
// The lookup is approximate: it finds the triangle whose centroid is
// nearest the query point under the tree's centroid-distance metric, not
// the triangle whose surface is nearest. The two coincide closely for
// reasonably uniform triangulations and a query point near the surface,
// which is the regime Rasterize's own near-band voxels fall in.
type KDTree struct {
	tree kdtree.Tree
}

// New builds a KDTree over tris. tris must not be empty.
func New(tris []geom.Triangle) *KDTree {
	leaves := make(kdTriangles, len(tris))
	for i, tri := range tris {
		leaves[i] = kdLeaf{idx: i, tri: tri}
	}
	tree := kdtree.New(leaves, true)
	return &KDTree{tree: *tree}
}

// Nearest returns the index of the triangle whose centroid is nearest p,
// and the exact point-to-triangle distance from p to that triangle.
func (k *KDTree) Nearest(p geom.Vec) (idx int, dist float32) {
	got, _ := k.tree.Nearest(kdLeaf{tri: geom.Triangle{p, p, p}})
	leaf := got.(kdLeaf)
	d2 := geom.PointTriDist2(leaf.tri, p)
	return leaf.idx, math32.Sqrt(d2)
}

type kdLeaf struct {
	idx int
	tri geom.Triangle
}

type kdTriangles []kdLeaf

func (k kdTriangles) Index(i int) kdtree.Comparable { return k[i] }
func (k kdTriangles) Len() int                      { return len(k) }

func (k kdTriangles) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), leaves: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (k kdTriangles) Slice(start, end int) kdtree.Interface { return k[start:end] }

func (k kdTriangles) Bounds() *kdtree.Bounding {
	if len(k) == 0 {
		return &kdtree.Bounding{Min: kdLeaf{}, Max: kdLeaf{}}
	}
	min, max := centroid(k[0].tri), centroid(k[0].tri)
	for _, leaf := range k[1:] {
		c := centroid(leaf.tri)
		min = geom.Vec{X: minf(min.X, c.X), Y: minf(min.Y, c.Y), Z: minf(min.Z, c.Z)}
		max = geom.Vec{X: maxf(max.X, c.X), Y: maxf(max.Y, c.Y), Z: maxf(max.Z, c.Z)}
	}
	return &kdtree.Bounding{
		Min: kdLeaf{tri: geom.Triangle{min, min, min}},
		Max: kdLeaf{tri: geom.Triangle{max, max, max}},
	}
}

// Compare returns the signed distance of a's centroid from the plane
// through b's centroid perpendicular to dimension d.
func (a kdLeaf) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return float64(dim(centroid(a.tri), int(d)) - dim(centroid(b.(kdLeaf).tri), int(d)))
}

func (a kdLeaf) Dims() int { return 3 }

// Distance returns the squared centroid-to-centroid distance, the metric
// the tree partitions and searches on.
func (a kdLeaf) Distance(b kdtree.Comparable) float64 {
	ca := centroid(a.tri)
	cb := centroid(b.(kdLeaf).tri)
	dx, dy, dz := float64(ca.X-cb.X), float64(ca.Y-cb.Y), float64(ca.Z-cb.Z)
	return dx*dx + dy*dy + dz*dz
}

func (a kdLeaf) Bounds() *kdtree.Bounding {
	c := centroid(a.tri)
	return &kdtree.Bounding{
		Min: kdLeaf{tri: geom.Triangle{c, c, c}},
		Max: kdLeaf{tri: geom.Triangle{c, c, c}},
	}
}

type kdPlane struct {
	dim    int
	leaves kdTriangles
}

func (p kdPlane) Less(i, j int) bool {
	return dim(centroid(p.leaves[i].tri), p.dim) < dim(centroid(p.leaves[j].tri), p.dim)
}
func (p kdPlane) Swap(i, j int) { p.leaves[i], p.leaves[j] = p.leaves[j], p.leaves[i] }
func (p kdPlane) Len() int      { return len(p.leaves) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.leaves = p.leaves[start:end]
	return p
}

func centroid(tri geom.Triangle) geom.Vec {
	return geom.Vec{
		X: (tri[0].X + tri[1].X + tri[2].X) / 3,
		Y: (tri[0].Y + tri[1].Y + tri[2].Y) / 3,
		Z: (tri[0].Z + tri[1].Z + tri[2].Z) / 3,
	}
}

func dim(v geom.Vec, d int) float32 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
