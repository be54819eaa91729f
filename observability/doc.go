// Package observability provides structured logging, metrics, and tracing
// for the API authorizer.
//
// This package implements:
//   - Structured logging (zap-based)
//   - Prometheus metrics for decisions, denial reasons and key set fetches
//   - OpenTelemetry spans around authorization and key set retrieval
//
// None of these signals are read back by the authorizer; they are
// write-only diagnostics.
package observability
