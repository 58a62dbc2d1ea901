// Package metrics provides an observability framework for presskit content delivery.
//
// It implements the Null Object pattern so components can record metrics without
// nil checks: everything defaults to NoopRecorder, and a PrometheusRecorder is
// injected when the admin server is enabled.
//
// Components receive a Recorder through dependency injection:
//
//	loader := loader.New(cache, loader.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// NoopRecorder methods inline away, so disabled metrics cost nothing.
package metrics
