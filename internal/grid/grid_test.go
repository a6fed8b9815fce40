package grid

import "testing"

func TestPackUnpackBijection(t *testing.T) {
	for _, c := range [][3]int32{
		{0, 0, 0}, {1, 2, 3}, {MaxCoord, MaxCoord, MaxCoord}, {5, 0, 1023}, {1023, 1023, 0},
	} {
		k := Pack(c[0], c[1], c[2])
		x, y, z := Unpack(k)
		if x != c[0] || y != c[1] || z != c[2] {
			t.Errorf("Pack/Unpack(%v) = (%d,%d,%d), want %v", c, x, y, z, c)
		}
	}
}

func TestToLinear(t *testing.T) {
	const n = 8
	seen := make(map[int64]bool)
	for z := int32(0); z < n; z++ {
		for y := int32(0); y < n; y++ {
			for x := int32(0); x < n; x++ {
				off := ToLinear(x, y, z, n)
				if off < 0 || off >= n*n*n {
					t.Fatalf("ToLinear(%d,%d,%d,%d) = %d out of range", x, y, z, n, off)
				}
				if seen[off] {
					t.Fatalf("ToLinear(%d,%d,%d,%d) = %d collides with a previous coordinate", x, y, z, n, off)
				}
				seen[off] = true
			}
		}
	}
}

func TestScale(t *testing.T) {
	k := Pack(1, 2, 3)
	const s = 4
	for i := int32(0); i < s; i++ {
		for j := int32(0); j < s; j++ {
			for kk := int32(0); kk < s; kk++ {
				child := Scale(k, s, i, j, kk)
				x, y, z := Unpack(child)
				if x != 1*s+i || y != 2*s+j || z != 3*s+kk {
					t.Errorf("Scale child (%d,%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
						i, j, kk, x, y, z, 1*s+i, 2*s+j, 3*s+kk)
				}
			}
		}
	}
}

func TestCenter(t *testing.T) {
	k := Pack(0, 0, 0)
	cx, cy, cz := Center(k, 8)
	const want = 0.5 / 8
	if cx != want || cy != want || cz != want {
		t.Errorf("Center(0,0,0,8) = (%f,%f,%f), want (%f,%f,%f)", cx, cy, cz, want, want, want)
	}
}
