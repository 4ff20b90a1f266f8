// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel

import (
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/mwilkerson-oss/weave"
)

// elementThreshold converts c's element-bytes budget into a minimum element
// count for T, below which a driver does not partition at all.
func elementThreshold[T any](c *config) int {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		size = 1
	}
	n := c.thresholdBytes / size
	if n < 1 {
		n = 1
	}
	return n
}

// planChunks decides how many chunks to split n elements into: 1 (no
// partitioning) if n is below the sequential threshold, otherwise
// min(n, chunksPerWorker*workerCount).
func planChunks[T any](c *config, n int) int {
	if n <= 1 || n < elementThreshold[T](c) {
		return 1
	}
	p := c.chunksPerWorker * c.pool.WorkerCount()
	if p < 1 {
		p = 1
	}
	if p > n {
		p = n
	}
	return p
}

// bounds returns the half-open range [lo, hi) of chunk i of chunks evenly
// dividing [0, n), front-loading the remainder by one element per chunk so
// that chunk sizes never differ by more than one.
func bounds(n, chunks, i int) (lo, hi int) {
	base := n / chunks
	rem := n % chunks
	if i < rem {
		lo = i * (base + 1)
		hi = lo + base + 1
	} else {
		lo = rem*(base+1) + (i-rem)*base
		hi = lo + base
	}
	return lo, hi
}

// runChunks splits [0, n) into chunks many pieces and runs work once per
// chunk on c's pool, waiting for all of them via the scoped-wait primitive
// so a single-worker pool can't deadlock against its own chunk tasks. A
// panic escaping any chunk's work is converted to an error exactly like a
// future stage's panic, and the first one observed is returned; the other
// chunks still run to completion.
func runChunks(c *config, chunks int, work func(chunkIndex, lo, hi int), n int) error {
	c.logger.Debug("partitioning", zap.Int("elements", n), zap.Int("chunks", chunks))
	if chunks <= 1 {
		return runOne(work, 0, 0, n)
	}

	latch := weave.NewLatch(uint32(chunks))
	var errOnce sync.Once
	var firstErr error
	record := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}
	for i := 0; i < chunks; i++ {
		i := i
		lo, hi := bounds(n, chunks, i)
		submitted := c.pool.Submit(func() {
			defer latch.Notify()
			if err := runOne(work, i, lo, hi); err != nil {
				record(err)
			}
		})
		if !submitted {
			record(weave.ErrSubmissionRefused)
			latch.Notify()
		}
	}
	c.pool.WaitFor(latch)
	return firstErr
}

// runOne invokes work for a single chunk, converting an escaping panic into
// an error instead of letting it cross a goroutine boundary unhandled.
func runOne(work func(chunkIndex, lo, hi int), chunkIndex, lo, hi int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", weave.ErrStagePanicked, r)
		}
	}()
	work(chunkIndex, lo, hi)
	return nil
}
