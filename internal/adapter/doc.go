// Package adapter connects the service to inventory sources.
//
// A Collector captures a complete inventory snapshot from its source. The
// FileCollector reads the JSON or YAML export produced by an external
// vSphere collector; the export format is decoded by package codec.
//
// The Scheduler drives periodic refreshes through a Refresher, normally the
// inventory service. A refresh requested while another one is running is
// skipped, not queued.
package adapter
