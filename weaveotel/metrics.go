// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weaveotel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name reported to the OpenTelemetry
// SDK for every instrument this package creates.
const meterName = "github.com/mwilkerson-oss/weave/weaveotel"

// MetricsTask wraps fn, recording its duration and success/failure count
// against the global OpenTelemetry MeterProvider under operationName.
func MetricsTask[T any](operationName string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	meter := otel.Meter(meterName)
	duration, _ := meter.Float64Histogram(
		"weave.task.duration",
		metric.WithDescription("duration of weave task execution in seconds"),
		metric.WithUnit("s"),
	)
	count, _ := meter.Int64Counter(
		"weave.task.count",
		metric.WithDescription("number of weave task executions"),
	)

	return func(ctx context.Context) (T, error) {
		start := time.Now()
		result, err := fn(ctx)
		elapsed := time.Since(start).Seconds()

		attrs := []attribute.KeyValue{
			attribute.String("operation", operationName),
			attribute.Bool("error", err != nil),
		}
		duration.Record(ctx, elapsed, metric.WithAttributes(attrs...))
		count.Add(ctx, 1, metric.WithAttributes(attrs...))
		return result, err
	}
}
