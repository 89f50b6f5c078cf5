// Package metrics declares the Prometheus collectors for ingestion, rewards and the
// scheduler, registered on the default registry, and a Fiber handler serving them at
// /metrics.
package metrics
