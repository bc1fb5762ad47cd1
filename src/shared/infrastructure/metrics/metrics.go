package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutsTotal ventas finalizadas desde el POS por resultado
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkout_total",
		Help: "Checkout attempts by outcome",
	}, []string{"outcome"})

	// BackendRequests llamadas al backend por recurso y código HTTP
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_backend_requests_total",
		Help: "Requests sent to the retail backend",
	}, []string{"resource", "code"})

	BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_backend_request_duration_seconds",
		Help:    "Latency of requests sent to the retail backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})
)

// Outcomes de checkout
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// ObserveBackend registra una llamada al backend; code 0 = error de red
func ObserveBackend(resource string, code int, started time.Time) {
	label := "network_error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	BackendRequests.WithLabelValues(resource, label).Inc()
	BackendLatency.WithLabelValues(resource).Observe(time.Since(started).Seconds())
}

// ObserveCheckout incrementa el contador de checkouts
func ObserveCheckout(outcome string) {
	CheckoutsTotal.WithLabelValues(outcome).Inc()
}
