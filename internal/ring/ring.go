// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package ring implements the bounded multi-producer, multi-consumer queue
// that backs each worker's task queue: a fixed-capacity circular buffer with
// blocking and non-blocking push/pop variants.
package ring

import (
	"sync"
	"time"

	"github.com/gammazero/deque"

	"github.com/mwilkerson-oss/weave/internal/timerp"
)

// DefaultPollInterval is how often a blocking Push or Pop wakes to re-check
// its keepRunning predicate while waiting for capacity or an item.
const DefaultPollInterval = 20 * time.Millisecond

// Queue is a fixed-capacity circular buffer of items of type T. The zero
// value is not usable; construct with [New]. A *Queue is safe for concurrent
// use by any number of producers and consumers.
type Queue[T any] struct {
	mu           sync.Mutex
	buf          deque.Deque[T]
	capacity     int
	notEmpty     chan struct{}
	notFull      chan struct{}
	pollInterval time.Duration
}

// New creates a Queue with the given fixed capacity. Capacity must be
// positive.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("weave/ring: capacity must be positive")
	}
	q := &Queue[T]{
		capacity:     capacity,
		notEmpty:     make(chan struct{}),
		notFull:      make(chan struct{}),
		pollInterval: DefaultPollInterval,
	}
	q.buf.SetMinCapacity(uint(minCapacityExponent(capacity)))
	return q
}

// SetPollInterval overrides the default wake interval used by blocking Push
// and Pop while they wait on capacity or an item. Intended for tests that
// want to observe keepRunning transitions promptly.
func (q *Queue[T]) SetPollInterval(d time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pollInterval = d
}

// Len returns the number of items currently queued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Len()
}

// TryPush attempts to enqueue v without blocking. It returns false if the
// queue's internal lock could not be acquired immediately or if the queue is
// at capacity.
func (q *Queue[T]) TryPush(v T) bool {
	if !q.mu.TryLock() {
		return false
	}
	defer q.mu.Unlock()
	if q.buf.Len() >= q.capacity {
		return false
	}
	q.buf.PushBack(v)
	q.wakeNotEmptyLocked()
	return true
}

// Push enqueues v, blocking while the queue is at capacity. It wakes
// periodically to re-evaluate keepRunning and returns false, without
// enqueuing, as soon as keepRunning returns false.
func (q *Queue[T]) Push(v T, keepRunning func() bool) bool {
	for {
		q.mu.Lock()
		if !keepRunning() {
			q.mu.Unlock()
			return false
		}
		if q.buf.Len() < q.capacity {
			q.buf.PushBack(v)
			q.wakeNotEmptyLocked()
			q.mu.Unlock()
			return true
		}
		waitCh := q.notFull
		interval := q.pollInterval
		q.mu.Unlock()
		waitWithTimeout(waitCh, interval)
	}
}

// TryPop attempts to dequeue an item without blocking. It returns the zero
// value and false if the internal lock could not be acquired immediately or
// if the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	if !q.mu.TryLock() {
		var zero T
		return zero, false
	}
	defer q.mu.Unlock()
	if q.buf.Len() == 0 {
		var zero T
		return zero, false
	}
	v := q.buf.PopFront()
	q.wakeNotFullLocked()
	return v, true
}

// Pop dequeues an item, blocking while the queue is empty. It wakes
// periodically to re-evaluate keepRunning and returns (zero, false) as soon
// as keepRunning returns false.
func (q *Queue[T]) Pop(keepRunning func() bool) (T, bool) {
	for {
		q.mu.Lock()
		if !keepRunning() {
			q.mu.Unlock()
			var zero T
			return zero, false
		}
		if q.buf.Len() > 0 {
			v := q.buf.PopFront()
			q.wakeNotFullLocked()
			q.mu.Unlock()
			return v, true
		}
		waitCh := q.notEmpty
		interval := q.pollInterval
		q.mu.Unlock()
		waitWithTimeout(waitCh, interval)
	}
}

// wakeNotEmptyLocked must be called with q.mu held; it wakes at most the
// current generation of not-empty waiters.
func (q *Queue[T]) wakeNotEmptyLocked() {
	close(q.notEmpty)
	q.notEmpty = make(chan struct{})
}

// wakeNotFullLocked must be called with q.mu held; it wakes at most the
// current generation of not-full waiters.
func (q *Queue[T]) wakeNotFullLocked() {
	close(q.notFull)
	q.notFull = make(chan struct{})
}

// waitWithTimeout blocks until ch is closed or d elapses, whichever comes
// first. Timers are pooled via internal/timerp to avoid per-wait allocation
// on the hot scheduling path.
func waitWithTimeout(ch <-chan struct{}, d time.Duration) {
	t := timerp.Get()
	// A pooled timer may have fired without its value being received; drain
	// it so the stale value cannot end this wait early.
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
	select {
	case <-ch:
	case <-t.C:
	}
	timerp.Put(t)
}

func minCapacityExponent(capacity int) int {
	exp := 0
	for (1 << exp) < capacity {
		exp++
	}
	return exp
}
