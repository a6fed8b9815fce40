// Package geom implements the point-to-triangle distance and
// ray-to-triangle hit kernels the rasterizer's broad and narrow phases run
// over every (triangle, cell) candidate.
package geom

import (
	"github.com/soypat/glgl/math/ms3"
)

// Triangle is three vertices in single precision, matching the vectorized
// evaluation convention used throughout this module.
type Triangle = ms3.Triangle

// Vec is a single-precision 3D vector.
type Vec = ms3.Vec

// Axis identifies one of the three world axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Unit returns the unit vector along a.
func (a Axis) Unit() ms3.Vec {
	switch a {
	case AxisX:
		return ms3.Vec{X: 1}
	case AxisY:
		return ms3.Vec{Y: 1}
	default:
		return ms3.Vec{Z: 1}
	}
}

// degenerateTol is the squared-length tolerance below which a triangle's
// face normal is considered zero, i.e. its vertices are collinear or
// coincident.
const degenerateTol = 1e-20
