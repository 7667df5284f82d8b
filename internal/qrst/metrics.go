// metrics.go prometheus instrumentation for the analyzer
package qrst

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricAnalyzersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrst",
		Subsystem: "analyzer",
		Name:      "instances_created_total",
		Help:      "Number of Analyzer instances constructed.",
	})

	metricSamplesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrst",
		Subsystem: "analyzer",
		Name:      "samples_processed_total",
		Help:      "Number of input samples consumed by Process.",
	})

	metricReportsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrst",
		Subsystem: "analyzer",
		Name:      "reports_emitted_total",
		Help:      "Number of per-octave (wavelength, amplitude) reports emitted.",
	})

	metricReconfigures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrst",
		Subsystem: "analyzer",
		Name:      "reconfigures_total",
		Help:      "Number of times an Analyzer's Config changed mid-stream.",
	})
)
