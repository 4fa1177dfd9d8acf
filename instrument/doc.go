// Package instrument exports reactivity engine events to Prometheus and
// OpenTelemetry.
//
// Both adapters implement reactivity.Observer:
//
//	remove := reactivity.AddObserver(instrument.NewMetrics(
//	    instrument.WithNamespace("myapp"),
//	))
//	defer remove()
package instrument
