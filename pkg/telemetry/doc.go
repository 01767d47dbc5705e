// Package telemetry provides structured logging and Prometheus metrics for
// repository instrumentation. Both are optional: repositories run silent and
// unmetered unless a Logger or Metrics instance is attached.
package telemetry
