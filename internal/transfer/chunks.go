package transfer

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// chunkPixels is the number of pixels handled per work unit. It is fixed so
// that reductions combine the same partial sums in the same order no matter
// how many workers run.
const chunkPixels = 1 << 16

// chunk is a half-open range of pixel indices.
type chunk struct {
	lo, hi int
}

func splitPixels(n int) []chunk {
	chunks := make([]chunk, 0, (n+chunkPixels-1)/chunkPixels)
	for lo := 0; lo < n; lo += chunkPixels {
		chunks = append(chunks, chunk{lo: lo, hi: min(lo+chunkPixels, n)})
	}
	return chunks
}

// forEachChunk runs fn for every chunk on up to GOMAXPROCS goroutines and
// waits for all of them. fn must only write state owned by chunk i.
func forEachChunk(chunks []chunk, fn func(i int, c chunk)) {
	if len(chunks) == 1 {
		fn(0, chunks[0])
		return
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			fn(i, c)
			return nil
		})
	}
	_ = g.Wait()
}
