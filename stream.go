// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weave

import "fmt"

// erasedStage is the type-erased trampoline stored per pipeline stage: a
// dynamic slice of fn(input) -> (output, error) closures stands in for a
// compile-time heterogeneous tuple, since Go generics have no variadic
// type-parameter lists. Type safety at each composition step is still
// enforced by [Pipe], which is the only place a stage is ever added.
type erasedStage func(any) (any, error)

// A Stream is a compile-time ordered sequence of stages S0...Sn-1 where
// Si's output type feeds Si+1's input. The stream itself is immutable and
// stateless; [Stream.Invoke] produces the equivalent chain of chained
// futures. I is the type expected by S0; O is the type produced by Sn-1.
type Stream[I, O any] struct {
	stages []erasedStage
}

// Compose starts a new Stream expecting input of type T. It has no stages
// yet; chain stages onto it with [Pipe].
func Compose[T any]() *Stream[T, T] {
	return &Stream[T, T]{}
}

// Pipe appends stage to s, returning a new Stream whose output type is
// stage's return type. Composing stages does no allocation beyond the
// returned Stream's stage slice; invocation state lives entirely in the
// future chain built by [Stream.Invoke].
func Pipe[I, O, N any](s *Stream[I, O], stage func(O) (N, error)) *Stream[I, N] {
	idx := len(s.stages)
	erased := func(in any) (any, error) {
		v, ok := in.(O)
		if !ok {
			panic("weave: stream stage received a value of unexpected type")
		}
		n, err := callStage(idx, v, stage)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	stages := make([]erasedStage, idx+1)
	copy(stages, s.stages)
	stages[idx] = erased
	return &Stream[I, N]{stages: stages}
}

// callStage runs stage, converting a panic into a [stageError] tagged with
// idx exactly like an explicit error return, so that downstream short-circuit
// forwarding never has to re-derive which stage actually failed.
func callStage[O, N any](idx int, v O, stage func(O) (N, error)) (n N, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = stageError{index: idx, err: fmt.Errorf("%w: %v", ErrStagePanicked, r)}
		}
	}()
	n, err = stage(v)
	if err != nil {
		err = stageError{index: idx, err: err}
	}
	return n, err
}

// stageError tags an error with the index of the stage that produced it.
// Errors forwarded unchanged through short-circuiting Then calls keep their
// original tag, which is what lets Invoke's on-error sink report the
// correct failing stage even though the error may have propagated through
// several further stages that were never actually invoked.
type stageError struct {
	index int
	err   error
}

func (e stageError) Error() string {
	return fmt.Sprintf("weave: stage %d: %v", e.index, e.err)
}

func (e stageError) Unwrap() error {
	return e.err
}

// Invoke runs the stream on in: it creates a future already resolved with
// in, chains S0...Sn-1 onto it with [Then], and delivers the final value to onDone or,
// if any stage failed, the stage's index and error to onError. pool selects
// where stage tasks run; nil means [DefaultPool].
//
// If all stages succeed, onDone receives Sn-1(...S0(in)). If stage i fails,
// onError is called exactly once with index i and stages i+1...n-1 are never
// invoked.
func (s *Stream[I, O]) Invoke(pool *Pool, in I, onDone func(O), onError func(stageIndex int, err error)) {
	cur, resolve := NewPromise[any](pool)
	resolve(in, nil)

	for _, stage := range s.stages {
		cur = Then[any, any](cur, pool, stage)
	}

	cur.installContinuation(func() {
		v, err := cur.Get()
		if err != nil {
			var se stageError
			if asStageError(err, &se) {
				onError(se.index, se.err)
			} else {
				onError(-1, err)
			}
			return
		}
		out, ok := v.(O)
		if !ok {
			panic("weave: stream produced a value of unexpected type")
		}
		onDone(out)
	}, func() {
		onError(-1, ErrSubmissionRefused)
	})
}

func asStageError(err error, out *stageError) bool {
	for err != nil {
		if se, ok := err.(stageError); ok {
			*out = se
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
