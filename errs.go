// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weave

import "github.com/mwilkerson-oss/weave/internal/cerr"

// ErrSubmissionRefused is the error a [Future] resolves with, and a parallel
// driver returns, when a pool that is stopped or stopping refuses the work.
// [Pool.Submit] itself reports refusal by returning false.
const ErrSubmissionRefused = cerr.Error("weave: submission refused, pool is stopped or stopping")

// ErrFutureNotReady is returned by [Future.TryGet] when the future has not
// yet resolved.
const ErrFutureNotReady = cerr.Error("weave: future is not ready")

// ErrStagePanicked wraps the recovered value of a panic that escaped a task
// or a [Then]/[Stream] stage. The worker that ran the callable is never
// killed; the panic is converted into this error and delivered through the
// future cell instead.
const ErrStagePanicked = cerr.Error("weave: stage panicked")
