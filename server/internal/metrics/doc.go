// Package metrics exposes brewstack-server counters and gauges at GET /metrics
// in the Prometheus text format.
//
// The Collector builds client_model MetricFamily values by hand and renders
// them with expfmt, without a client_golang registry. Counters are fed by the
// REST, gRPC and WebSocket surfaces; gauges are read through Sources callbacks
// at scrape time.
package metrics
