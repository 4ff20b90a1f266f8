// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weave

// A task is a callable submitted to a [Pool], plus an optional readiness
// prerequisite. A task with a nil ready latch is always ready. A worker that
// pops a task that is not yet ready must re-enqueue it rather than run it;
// see [Pool] for the scheduling loop that enforces this.
type task struct {
	fn    func()
	ready *Latch
}

// isReady reports whether the task's prerequisite, if any, has fired.
func (t task) isReady() bool {
	return t.ready == nil || t.ready.TryWait()
}

// valid reports whether the task carries a runnable callable. The zero value
// of task is invalid; it exists only as the not-found sentinel returned by
// queue pops.
func (t task) valid() bool {
	return t.fn != nil
}
