// Package metrics records pipeline observations.
//
// Components receive a Recorder; NoopRecorder is the default so callers never
// nil-check. PrometheusRecorder registers counters and histograms on a
// registry, and WriteTextfile snapshots that registry in the node-exporter
// textfile format so a one-shot build process can still be scraped.
package metrics
