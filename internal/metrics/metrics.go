package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reservationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "reservations_created_total",
			Help:      "Reservations created, labelled by initial status.",
		},
		[]string{"status"},
	)

	reservationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "reservation_transitions_total",
			Help:      "Reservation status transitions.",
		},
		[]string{"to"},
	)

	conflictRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "conflict_rejections_total",
			Help:      "Reservation attempts rejected due to a time conflict.",
		},
	)

	availabilityCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablebook",
			Name:      "availability_cache_total",
			Help:      "Availability map cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			reservationsCreated,
			reservationTransitions,
			conflictRejections,
			availabilityCacheHits,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncReservationCreated records a successful creation with its initial status.
func IncReservationCreated(status string) {
	reservationsCreated.WithLabelValues(status).Inc()
}

// IncTransition records a status transition to the given status.
func IncTransition(to string) {
	reservationTransitions.WithLabelValues(to).Inc()
}

// IncConflictRejection records a creation or update blocked by overlap.
func IncConflictRejection() {
	conflictRejections.Inc()
}

// IncCacheLookup records an availability cache hit or miss.
func IncCacheLookup(outcome string) {
	availabilityCacheHits.WithLabelValues(outcome).Inc()
}
