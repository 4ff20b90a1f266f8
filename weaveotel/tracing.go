// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weaveotel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name reported to the OpenTelemetry
// SDK for every span this package creates.
const tracerName = "github.com/mwilkerson-oss/weave/weaveotel"

// TracedTask wraps fn in an OpenTelemetry span named operationName. ctx
// carries the parent span; the span started for fn is a child of whatever
// span (if any) ctx already holds. A returned error marks the span as
// failed via [codes.Error].
func TracedTask[T any](ctx context.Context, operationName string, fn func(context.Context) (T, error)) (T, error) {
	tracer := otel.Tracer(tracerName)
	spanCtx, span := tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("weave.operation", operationName),
	))
	defer span.End()

	result, err := fn(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return result, err
}
