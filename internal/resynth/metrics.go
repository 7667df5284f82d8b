// metrics.go prometheus instrumentation for the resynthesizer
package resynth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricResynthesizersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrst",
		Subsystem: "resynth",
		Name:      "instances_created_total",
		Help:      "Number of Resynthesizer instances constructed.",
	})

	metricRecordsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrst",
		Subsystem: "resynth",
		Name:      "records_applied_total",
		Help:      "Number of wire records accepted and queued as a pending oscillator update.",
	})

	metricRecordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrst",
		Subsystem: "resynth",
		Name:      "records_skipped_total",
		Help:      "Number of wire records rejected for an unsupported channel or octave.",
	})

	metricSamplesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrst",
		Subsystem: "resynth",
		Name:      "samples_generated_total",
		Help:      "Number of PCM samples produced by Tick.",
	})
)
