// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package parallel implements divide-and-conquer drivers over slices: each
// function splits its input into chunks, runs a worker over each chunk on a
// [weave.Pool], and combines the per-chunk results in original-index order.
//
// Every driver accepts an optional [Option] list. With no options, work runs
// on [weave.DefaultPool] with chunk sizing tuned from that pool's worker
// count. Inputs shorter than the sequential-fallback threshold run in the
// calling goroutine without touching the pool at all.
package parallel
