// Package grid packs and unpacks 3D integer cell coordinates into a single
// 32-bit key and computes linear offsets into a dense R³ lattice.
package grid

// MaxCoord is the largest coordinate value representable per axis (10 bits).
const MaxCoord = 1<<10 - 1

// Key packs a 3D integer coordinate for the grid's current resolution.
type Key uint32

// Pack bijects (x,y,z), each in [0,1024), into a single Key.
// Pack and Unpack are inverses: Unpack(Pack(x,y,z)) == (x,y,z).
func Pack(x, y, z int32) Key {
	return Key(uint32(x)&MaxCoord | (uint32(y)&MaxCoord)<<10 | (uint32(z)&MaxCoord)<<20)
}

// Unpack inverts Pack.
func Unpack(k Key) (x, y, z int32) {
	u := uint32(k)
	x = int32(u & MaxCoord)
	y = int32((u >> 10) & MaxCoord)
	z = int32((u >> 20) & MaxCoord)
	return x, y, z
}

// ToLinear computes the linear offset of (x,y,z) into a dense N×N×N grid.
func ToLinear(x, y, z, n int32) int64 {
	return int64(x) + int64(n)*int64(y) + int64(n)*int64(n)*int64(z)
}

// LinearOf computes the linear offset of a packed key into a dense N×N×N grid.
func LinearOf(k Key, n int32) int64 {
	x, y, z := Unpack(k)
	return ToLinear(x, y, z, n)
}

// Scale maps a cell at the current resolution to one of its S³ children at
// resolution N·S, offset by the child index (i,j,k), each in [0,S).
func Scale(k Key, s, i, j, k2 int32) Key {
	x, y, z := Unpack(k)
	return Pack(x*s+i, y*s+j, z*s+k2)
}

// Center returns the center of the cell identified by key at resolution n,
// in the unit cube [0,1]³, as the three float32 coordinates that callers
// combine into their own vector type.
func Center(k Key, n int32) (cx, cy, cz float32) {
	x, y, z := Unpack(k)
	nf := float32(n)
	return (float32(x) + 0.5) / nf, (float32(y) + 0.5) / nf, (float32(z) + 0.5) / nf
}
