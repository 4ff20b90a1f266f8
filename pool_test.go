// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weave

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsEverySubmittedTask(t *testing.T) {
	p := NewPool(4)
	p.Start()
	defer p.Stop(true)

	const n = 100
	var count atomic.Int64
	latch := NewLatch(n)
	for i := 0; i < n; i++ {
		ok := p.Submit(func() {
			count.Add(1)
			latch.Notify()
		})
		require.True(t, ok)
	}
	latch.Wait()
	require.EqualValues(t, n, count.Load())
}

func TestPoolSubmitRefusedAfterStop(t *testing.T) {
	p := NewPool(2)
	p.Start()
	p.Stop(true)

	ok := p.Submit(func() {})
	require.False(t, ok)
}

func TestPoolRecoversPanickingTask(t *testing.T) {
	p := NewPool(2)
	p.Start()
	defer p.Stop(true)

	latch := NewLatch(1)
	ok := p.Submit(func() {
		defer latch.Notify()
		panic("boom")
	})
	require.True(t, ok)

	select {
	case <-latch.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("panicking task did not run to its own completion signal")
	}

	// The pool itself must still be usable afterward.
	done := NewLatch(1)
	require.True(t, p.Submit(done.Notify))
	done.Wait()
}

func TestPoolSingleWorkerScopedWaitDoesNotDeadlock(t *testing.T) {
	p := NewPool(1)
	p.Start()
	defer p.Stop(true)

	inner := NewLatch(1)
	require.True(t, p.Submit(inner.Notify))

	done := make(chan struct{})
	require.True(t, p.Submit(func() {
		p.WaitFor(inner)
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scoped wait on a single-worker pool deadlocked")
	}
}

func TestPoolSubmitWithLatchWaitsForReadiness(t *testing.T) {
	p := NewPool(1)
	p.Start()
	defer p.Stop(true)

	ready := NewLatch(1)
	var ran atomic.Bool
	done := NewLatch(1)
	require.True(t, p.SubmitWithLatch(func() {
		ran.Store(true)
		done.Notify()
	}, ready))

	// The not-ready task must not run while its readiness latch is unfired,
	// even though the pool's sole worker has nothing else to do and keeps
	// scanning its queue.
	select {
	case <-done.Done():
		t.Fatal("task ran before its readiness latch fired")
	case <-time.After(100 * time.Millisecond):
	}
	require.False(t, ran.Load())

	// Firing the latch from another task (not the worker itself, to prove
	// re-enqueue doesn't starve the queue against other submitters) lets the
	// not-ready task proceed.
	require.True(t, p.Submit(ready.Notify))

	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task submitted with SubmitWithLatch never ran after its latch fired")
	}
	require.True(t, ran.Load())
}

func TestPoolWorkStealing(t *testing.T) {
	p := NewPool(4)
	p.Start()
	defer p.Stop(true)

	const n = 2000
	var count atomic.Int64
	latch := NewLatch(n)
	for i := 0; i < n; i++ {
		p.Submit(func() {
			count.Add(1)
			latch.Notify()
		})
	}
	latch.Wait()
	require.EqualValues(t, n, count.Load())
}
