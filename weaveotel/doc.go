// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package weaveotel adds OpenTelemetry tracing and metrics, plus zap
// logging, to weave tasks. It is a separate Go module from weave itself
// (mirroring the teacher's otpsg submodule), so that a caller who doesn't
// need instrumentation never pulls in the OpenTelemetry SDK.
package weaveotel
