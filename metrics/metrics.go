// Package metrics exposes the Prometheus instrumentation for the
// session engine. Counters are registered via promauto at init and
// served from /metrics by the API server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsAcceptedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_engine_bookings_accepted_total",
			Help: "Total number of accepted booking attempts",
		},
		[]string{"kind", "session_type"},
	)

	BookingsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_engine_bookings_rejected_total",
			Help: "Total number of rejected booking attempts by first reason",
		},
		[]string{"reason"},
	)

	ConfirmationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_engine_confirmations_total",
			Help: "Total number of bookings transitioned to confirmed",
		},
	)

	AdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_engine_adjustments_total",
			Help: "Total number of usage adjustments by operation",
		},
		[]string{"op"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_engine_import_rows_total",
			Help: "Total number of processed import rows by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordBookingAccepted(kind, sessionType string) {
	BookingsAcceptedTotal.WithLabelValues(kind, sessionType).Inc()
}

func RecordBookingRejected(reason string) {
	BookingsRejectedTotal.WithLabelValues(reason).Inc()
}

func RecordConfirmations(n int) {
	ConfirmationsTotal.Add(float64(n))
}

func RecordAdjustment(op string) {
	AdjustmentsTotal.WithLabelValues(op).Inc()
}

func RecordImportRows(created, failed int) {
	ImportRowsTotal.WithLabelValues("created").Add(float64(created))
	ImportRowsTotal.WithLabelValues("failed").Add(float64(failed))
}
