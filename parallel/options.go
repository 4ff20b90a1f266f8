// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package parallel

import (
	"go.uber.org/zap"

	"github.com/mwilkerson-oss/weave"
)

// defaultChunksPerWorker is the tuning constant P/K from the partition
// policy: request about this many chunks for every worker thread so that a
// worker stealing from a neighbor still finds reasonably small, balanced
// units of work.
const defaultChunksPerWorker = 2

// defaultThresholdBytes is the reference sequential-fallback threshold,
// expressed as a budget of element bytes rather than element count so that
// it behaves sensibly for both small structs and large ones.
const defaultThresholdBytes = 64 * 1024

// An Option customizes a driver's pool, logger, and chunk-sizing policy.
type Option func(*config)

type config struct {
	pool            *weave.Pool
	logger          *zap.Logger
	chunksPerWorker int
	thresholdBytes  int
}

func newConfig(opts []Option) *config {
	c := &config{
		chunksPerWorker: defaultChunksPerWorker,
		thresholdBytes:  defaultThresholdBytes,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = weave.DefaultPool()
	}
	return c
}

// WithPool runs the driver on p instead of [weave.DefaultPool].
func WithPool(p *weave.Pool) Option {
	return func(c *config) {
		c.pool = p
	}
}

// WithLogger attaches a structured logger; partition-size decisions are
// logged through it at Debug level. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithChunksPerWorker overrides how many chunks are requested per worker
// thread when an input is large enough to partition at all.
func WithChunksPerWorker(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunksPerWorker = n
		}
	}
}

// WithSequentialThresholdBytes overrides the element-bytes budget below
// which a driver runs sequentially instead of partitioning.
func WithSequentialThresholdBytes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.thresholdBytes = n
		}
	}
}
