// Package telemetry wires OpenTelemetry tracing.
//
// Init installs an SDK tracer provider with service resource attributes and an
// optional stdout exporter. Reconciliation runs and outbound page fetches then
// produce spans through the global provider.
package telemetry
