// Package metrics records render observations.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless a real implementation is
// wired in:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	pub := writer.NewPublisher(writer.WithRecorder(recorder))
//
// The preview server registers a PrometheusRecorder and serves the registry
// on /metrics through HTTPHandler.
package metrics
