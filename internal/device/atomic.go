// Package device provides the atomic primitives and tile-parallel task
// dispatch the broad and narrow phases run on, simulating on the host CPU
// the massively parallel accelerator execution model described for this
// rasterizer: fixed-size tiles of independent tasks, a tile-local counter,
// and a handful of atomics (add, float min, signed-int max).
package device

import (
	"math"
	"sync/atomic"
)

// AtomicMinFloat32Bits atomically sets *addr, which holds the IEEE-754 bit
// pattern of a non-negative float32, to the bit pattern of the minimum of
// its current value and v.
//
// This relies on the fact that for non-negative float32 values the raw
// bit pattern orders the same as the numeric value, so a plain uint32 CAS
// loop suffices without decoding the float on every iteration — the
// monotone-encoding trick from the narrow phase's atomic-min design note.
// v must be non-negative; the rasterizer only ever atomic-mins actual
// distances and a non-negative sentinel.
func AtomicMinFloat32Bits(addr *uint32, v float32) {
	bits := math.Float32bits(v)
	for {
		old := atomic.LoadUint32(addr)
		if bits >= old {
			return
		}
		if atomic.CompareAndSwapUint32(addr, old, bits) {
			return
		}
	}
}

// AtomicMaxInt32 atomically sets *addr to the maximum of its current value
// and v. Go's sync/atomic has no native signed-int max, so this is a CAS
// loop, mirroring the float-min loop above.
func AtomicMaxInt32(addr *int32, v int32) {
	for {
		old := atomic.LoadInt32(addr)
		if v <= old {
			return
		}
		if atomic.CompareAndSwapInt32(addr, old, v) {
			return
		}
	}
}
