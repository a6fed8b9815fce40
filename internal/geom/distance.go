package geom

import "github.com/soypat/glgl/math/ms3"

// PointTriDist2 returns the squared Euclidean distance from p to the closest
// point on the closed triangle tri.
//
// Degenerate triangles (collinear or coincident vertices) fall back to
// point-to-segment distance on the longest edge, and to point-to-point
// distance if all three vertices coincide, rather than producing NaN. The
// result is symmetric in vertex order up to floating-point rounding since
// it is the geometric distance to a set of points, not a function of vertex
// labeling.
func PointTriDist2(tri Triangle, p ms3.Vec) float32 {
	a, b, c := tri[0], tri[1], tri[2]
	ab := ms3.Sub(b, a)
	ac := ms3.Sub(c, a)
	n := ms3.Cross(ab, ac)
	if ms3.Norm2(n) < degenerateTol {
		return degenerateDist2(a, b, c, p)
	}

	// Closest point on triangle via barycentric region classification.
	// Ericson, Real-Time Collision Detection §5.1.5.
	ap := ms3.Sub(p, a)
	d1 := ms3.Dot(ab, ap)
	d2 := ms3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return ms3.Norm2(ap) // vertex region a
	}

	bp := ms3.Sub(p, b)
	d3 := ms3.Dot(ab, bp)
	d4 := ms3.Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return ms3.Norm2(bp) // vertex region b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		closest := ms3.Add(a, ms3.Scale(v, ab))
		return ms3.Norm2(ms3.Sub(p, closest)) // edge ab
	}

	cp := ms3.Sub(p, c)
	d5 := ms3.Dot(ab, cp)
	d6 := ms3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return ms3.Norm2(cp) // vertex region c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		closest := ms3.Add(a, ms3.Scale(w, ac))
		return ms3.Norm2(ms3.Sub(p, closest)) // edge ac
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		closest := ms3.Add(b, ms3.Scale(w, ms3.Sub(c, b)))
		return ms3.Norm2(ms3.Sub(p, closest)) // edge bc
	}

	// Interior of the face: project p onto the plane via barycentric coords.
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	closest := ms3.Add(a, ms3.Add(ms3.Scale(v, ab), ms3.Scale(w, ac)))
	return ms3.Norm2(ms3.Sub(p, closest))
}

// degenerateDist2 handles collinear or coincident triangle vertices by
// falling back to the longest edge's point-to-segment distance, and
// ultimately to point-to-point distance if the triangle has collapsed to a
// single point.
func degenerateDist2(a, b, c, p ms3.Vec) float32 {
	type edge struct{ u, v ms3.Vec }
	edges := [3]edge{{a, b}, {b, c}, {c, a}}
	longest := 0
	longestLen2 := float32(-1)
	for i, e := range edges {
		l2 := ms3.Norm2(ms3.Sub(e.v, e.u))
		if l2 > longestLen2 {
			longestLen2 = l2
			longest = i
		}
	}
	if longestLen2 < degenerateTol {
		return ms3.Norm2(ms3.Sub(p, a)) // all three vertices coincide
	}
	e := edges[longest]
	return pointSegDist2(p, e.u, e.v)
}

// pointSegDist2 returns the squared distance from p to the closed segment uv.
func pointSegDist2(p, u, v ms3.Vec) float32 {
	uv := ms3.Sub(v, u)
	len2 := ms3.Norm2(uv)
	t := ms3.Dot(ms3.Sub(p, u), uv) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := ms3.Add(u, ms3.Scale(t, uv))
	return ms3.Norm2(ms3.Sub(p, closest))
}
