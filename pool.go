// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weave

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mwilkerson-oss/weave/internal/ring"
)

// DefaultQueueCapacity is the fixed capacity of each per-worker queue unless
// overridden with [WithQueueCapacity].
const DefaultQueueCapacity = 1024

// A Waitable is anything a caller can block on via [Pool.WaitFor]: both
// [Latch] and [Future] satisfy it.
type Waitable interface {
	Done() <-chan struct{}
}

// A Pool is a fixed-size set of worker threads, each dequeuing tasks from
// its own bounded queue and stealing from its neighbors when its own queue
// runs dry. A Pool is constructed stopped; call [Pool.Start] to spawn its
// workers.
//
// The zero value is not usable; construct with [NewPool].
type Pool struct {
	queues          []*ring.Queue[task]
	rr              atomic.Uint64
	running         atomic.Bool
	started         atomic.Bool
	wg              sync.WaitGroup
	tempCount       atomic.Int32
	logger          *zap.Logger
	queueCapacity   int
	pollInterval    time.Duration
	blockOnShutdown bool
}

// A PoolOption customizes a [Pool] at construction time.
type PoolOption func(*Pool)

// WithLogger attaches a structured logger. Worker lifecycle, steal events,
// temporary-worker spin-up, and recovered task panics are logged through it.
// The default is a no-op logger.
func WithLogger(logger *zap.Logger) PoolOption {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithQueueCapacity overrides the fixed capacity of each per-worker queue.
func WithQueueCapacity(capacity int) PoolOption {
	return func(p *Pool) {
		p.queueCapacity = capacity
	}
}

// WithPollInterval overrides how often a parked worker wakes to re-check the
// pool's running flag while its queue is empty.
func WithPollInterval(d time.Duration) PoolOption {
	return func(p *Pool) {
		p.pollInterval = d
	}
}

// WithBlockOnDrop makes [Pool.Stop] default to blocking (joining every
// worker) even when called with block=false from a deferred cleanup whose
// caller has already stopped caring about the distinction. This mirrors the
// teacher's block_on_destruction construction flag; most callers should
// leave it false and pass block explicitly to Stop.
func WithBlockOnDrop(block bool) PoolOption {
	return func(p *Pool) {
		p.blockOnShutdown = block
	}
}

// NewPool creates a Pool with the given number of permanent worker threads.
// A workerCount <= 0 means hardware parallelism. The pool is constructed
// stopped; call [Pool.Start] before submitting tasks.
func NewPool(workerCount int, opts ...PoolOption) *Pool {
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		queueCapacity: DefaultQueueCapacity,
		pollInterval:  ring.DefaultPollInterval,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.queues = make([]*ring.Queue[task], workerCount)
	for i := range p.queues {
		q := ring.New[task](p.queueCapacity)
		q.SetPollInterval(p.pollInterval)
		p.queues[i] = q
	}
	return p
}

// WorkerCount returns the number of permanent worker threads, fixed at
// construction.
func (p *Pool) WorkerCount() int {
	return len(p.queues)
}

// Running reports whether the pool is currently accepting and executing
// tasks.
func (p *Pool) Running() bool {
	return p.running.Load()
}

// Start spawns the pool's permanent worker threads. Calling Start on an
// already-started pool is a no-op.
func (p *Pool) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	p.running.Store(true)
	for i := range p.queues {
		p.wg.Add(1)
		id := i
		go func() {
			defer p.wg.Done()
			p.logger.Debug("worker starting", zap.Int("worker", id))
			p.workerLoop(id)
			p.logger.Debug("worker stopped", zap.Int("worker", id))
		}()
	}
}

// Stop clears the running flag, pushes a no-op task onto every queue to
// unblock any worker parked on an empty-queue wait, and then either joins
// (block=true) or detaches (block=false) the permanent workers. Temporary
// workers spun up by [Pool.WaitForScope] are never joined; they exit on
// their own scope latch.
//
// Calling Stop more than once has no additional effect.
func (p *Pool) Stop(block bool) {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	for _, q := range p.queues {
		q.TryPush(task{fn: func() {}})
	}
	if block || p.blockOnShutdown {
		p.wg.Wait()
	}
}

// Submit places fn on a queue chosen by round-robin placement. It returns
// false only if the pool has begun shutting down.
func (p *Pool) Submit(fn func()) bool {
	return p.submit(task{fn: fn})
}

// SubmitWithLatch places fn on a queue chosen by round-robin placement, but
// marks it not ready to run until ready fires. A worker that pops a
// not-ready task re-enqueues it onto the same queue rather than running it.
func (p *Pool) SubmitWithLatch(fn func(), ready *Latch) bool {
	return p.submit(task{fn: fn, ready: ready})
}

func (p *Pool) submit(t task) bool {
	if !t.valid() {
		panic("weave: task function must be non-nil")
	}
	if !p.running.Load() {
		return false
	}
	idx := p.nextQueueIndex()
	return p.queues[idx].Push(t, p.running.Load)
}

// nextQueueIndex implements the round-robin placement policy shared by
// external submitters and by tasks scattering further work from inside a
// running worker.
func (p *Pool) nextQueueIndex() int {
	return int(p.rr.Add(1) % uint64(len(p.queues)))
}

// WaitForScope lends the pool one temporary worker for the duration of f,
// then notifies the temporary worker's exit latch so it finishes its
// current task and exits. Use this from a goroutine that is about to block
// on a [Latch] or [Future] whose completion is itself scheduled as pool
// work, to avoid deadlocking a fully-subscribed pool.
func (p *Pool) WaitForScope(f func()) {
	exit := NewLatch(1)
	p.StartTempTaskRunners(1, exit)
	defer exit.Notify()
	f()
}

// WaitFor is [Pool.WaitForScope] specialized to the common case of blocking
// on a single [Waitable]: the scope receives from w.Done().
func (p *Pool) WaitFor(w Waitable) {
	p.WaitForScope(func() {
		<-w.Done()
	})
}

// StartTempTaskRunners spawns n detached auxiliary worker threads. Each runs
// the same dequeue-and-execute loop as a permanent worker, but exits as soon
// as exit.TryWait() reports true (in addition to exiting if the pool itself
// stops). Exposed directly, beyond what [Pool.WaitForScope] needs, so that
// callers composing their own scoped wait over more than one [Waitable] can
// still borrow the pool's deadlock-avoidance mechanism.
func (p *Pool) StartTempTaskRunners(n int, exit *Latch) {
	for i := 0; i < n; i++ {
		p.tempCount.Add(1)
		p.logger.Info("temporary worker starting", zap.Int32("temp_workers", p.tempCount.Load()))
		go func() {
			defer func() {
				p.tempCount.Add(-1)
				p.logger.Info("temporary worker stopped", zap.Int32("temp_workers", p.tempCount.Load()))
			}()
			p.tempWorkerLoop(exit)
		}()
	}
}

// workerLoop is the permanent-worker dequeue loop: try the owned queue, then
// steal round-robin from the owner's successors, then park on the owned
// queue's not-empty wait.
func (p *Pool) workerLoop(id int) {
	own := p.queues[id]
	for p.running.Load() {
		t, ok := own.TryPop()
		if !ok {
			t, ok = p.steal(id)
		}
		if !ok {
			t, ok = own.Pop(p.running.Load)
			if !ok {
				continue
			}
		}
		p.execute(own, t)
	}
}

// tempWorkerLoop is the temporary-worker variant of workerLoop: it has no
// owned queue to park on, so on a full scan miss it sleeps briefly before
// retrying, and it exits on either the pool stopping or its own exit latch
// firing.
func (p *Pool) tempWorkerLoop(exit *Latch) {
	start := p.nextQueueIndex()
	for p.running.Load() && !exit.TryWait() {
		idx, t, ok := p.scanFrom(start)
		if !ok {
			time.Sleep(p.pollInterval)
			continue
		}
		p.execute(p.queues[idx], t)
	}
}

// steal scans the owner's successor queues in round-robin order, starting
// from the owner's immediate successor.
func (p *Pool) steal(owner int) (task, bool) {
	k := len(p.queues)
	for s := 1; s < k; s++ {
		idx := (owner + s) % k
		if t, ok := p.queues[idx].TryPop(); ok {
			p.logger.Debug("stole task", zap.Int("from_queue", idx), zap.Int("thief_queue", owner))
			return t, true
		}
	}
	return task{}, false
}

// scanFrom tries every queue once, starting at start, and reports which
// queue the returned task came from so a not-ready task can be re-enqueued
// onto the same queue it was popped from.
func (p *Pool) scanFrom(start int) (int, task, bool) {
	k := len(p.queues)
	for s := 0; s < k; s++ {
		idx := (start + s) % k
		if t, ok := p.queues[idx].TryPop(); ok {
			return idx, t, true
		}
	}
	return 0, task{}, false
}

// execute runs a popped task, re-enqueuing it onto the queue it came from if
// its readiness prerequisite hasn't fired yet, and otherwise running it with
// panic recovery so that a user callable can never kill a worker.
func (p *Pool) execute(q *ring.Queue[task], t task) {
	if !t.isReady() {
		if !q.Push(t, p.running.Load) {
			// Pool stopped while we were trying to put the task back; drop
			// it, matching the shutdown semantics of any other queued task.
		}
		return
	}
	func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panicked", zap.Any("recover", r))
			}
		}()
		t.fn()
	}()
}
