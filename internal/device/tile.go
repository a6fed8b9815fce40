package device

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultTileSize is the number of tasks grouped per tile when a caller
// does not need a different grouping, matching the broad phase's example
// tile size.
const DefaultTileSize = 512

// RunTiles partitions the task index range [0,total) into fixed-size tiles
// and invokes fn once per tile across up to workers goroutines.
//
// Tiles are unordered: which goroutine executes which tile, and in what
// order, is unspecified — fn must not assume anything about tile execution
// order, only that the [tileStart,tileEnd) range it receives is assigned to
// it exclusively. workers <= 0 defaults to runtime.GOMAXPROCS(0).
func RunTiles(total int64, tileSize int, workers int, fn func(tileStart, tileEnd int64)) {
	if total <= 0 {
		return
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	numTiles := (total + int64(tileSize) - 1) / int64(tileSize)
	if int64(workers) > numTiles {
		workers = int(numTiles)
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				tile := next.Add(1) - 1
				if tile >= numTiles {
					return
				}
				start := tile * int64(tileSize)
				end := start + int64(tileSize)
				if end > total {
					end = total
				}
				fn(start, end)
			}
		}()
	}
	wg.Wait()
}
