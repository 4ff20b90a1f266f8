// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weaveotel

import (
	"context"

	"github.com/mwilkerson-oss/weave"
)

// TracedGo submits fn to pool via [weave.Go], instrumented with logging,
// metrics, and an OpenTelemetry span all at once — the same inside-out
// composition as the teacher's InstrumentedTask, adapted to weave's plain
// closure tasks.
//
// Unlike the teacher's psg.TaskFunc, a weave task is an ordinary closure
// created in the submitting goroutine and only later invoked on a worker
// goroutine; it already captures ctx by reference, so no result-wrapper
// type is needed to carry trace context across that boundary the way
// otpsg's PropagatedResult does for psg's serialized task results.
func TracedGo[T any](ctx context.Context, pool *weave.Pool, operationName string, fn func(context.Context) (T, error)) *weave.Future[T] {
	logged := func(ctx context.Context) (T, error) {
		wrapped := LoggedTask(operationName, func() (T, error) { return fn(ctx) })
		return wrapped()
	}
	withMetrics := MetricsTask(operationName, logged)
	return weave.Go(pool, func() (T, error) {
		return TracedTask(ctx, operationName, withMetrics)
	})
}
