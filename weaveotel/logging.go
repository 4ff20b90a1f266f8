// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weaveotel

import (
	"time"

	"go.uber.org/zap"
)

// LoggedTask wraps fn with structured start/completion logging via zap's
// global logger, including timing and any returned error.
func LoggedTask[T any](operationName string, fn func() (T, error)) func() (T, error) {
	return func() (T, error) {
		logger := zap.L()
		logger.Debug("starting task", zap.String("operation", operationName))

		start := time.Now()
		result, err := fn()
		duration := time.Since(start)

		if err != nil {
			logger.Error("task failed",
				zap.String("operation", operationName),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Debug("task completed",
				zap.String("operation", operationName),
				zap.Duration("duration", duration))
		}
		return result, err
	}
}
