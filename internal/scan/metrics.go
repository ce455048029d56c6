package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// documentsTotal counts scanned documents by outcome.
	// Labels: result (processed, skipped, error)
	documentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nominationd",
			Subsystem: "scan",
			Name:      "documents_total",
			Help:      "Total number of contract documents considered per scan outcome",
		},
		[]string{"result"},
	)

	// nominationsInserted counts nomination records persisted.
	nominationsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nominationd",
			Subsystem: "scan",
			Name:      "nominations_inserted_total",
			Help:      "Total number of nomination records inserted",
		},
	)

	// oracleCalls counts completion requests by kind and result.
	// Labels: kind (date, keyword), result (success, error)
	oracleCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nominationd",
			Subsystem: "scan",
			Name:      "oracle_calls_total",
			Help:      "Total number of oracle completion calls",
		},
		[]string{"kind", "result"},
	)

	// scanDuration tracks full directory scan duration.
	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nominationd",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Duration of full directory scans in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func recordOracleCall(kind string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	oracleCalls.WithLabelValues(kind, result).Inc()
}
