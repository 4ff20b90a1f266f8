// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package weave provides a user-space task scheduling runtime: a pool of
// worker threads that dequeue and run submitted tasks, a [Future] type that
// supports chained continuations, a [Latch] counting gate used for
// completion signalling, and a [Stream] composer that turns a sequence of
// typed stages into a future chain.
//
// Tasks are placed on per-worker queues using round-robin placement. A
// worker that runs out of work steals from its neighbors before parking.
// When a thread already running inside the pool needs to block on a [Latch]
// whose countdown is itself scheduled as pool work, [Pool.WaitForScope] lends
// the pool a temporary worker for the duration of the wait so that the pool
// can never deadlock on itself.
//
// The parallel package builds divide-and-conquer algorithms (for_each, sort,
// reduce, scan, map_reduce, ...) on top of a [Pool].
package weave
