package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking flow metrics
	BookingTransitions *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	Submissions        prometheus.Counter
	SubmissionLatency  prometheus.Histogram

	// Cart metrics
	CartAdditions *prometheus.CounterVec

	// Session store metrics
	SessionOperations *prometheus.CounterVec
	SessionLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics with reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BookingTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Booking flow actions by outcome",
		}, []string{"action", "outcome"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "validation_failures_total",
			Help:      "Fields that blocked a step transition",
		}, []string{"field"}),
		Submissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total number of simulated appointment submissions",
		}),
		SubmissionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "submission_duration_seconds",
			Help:      "Time spent in the simulated submission",
			Buckets:   []float64{.1, .25, .5, .75, 1, 1.5, 2, 5},
		}),

		CartAdditions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "additions_total",
			Help:      "Products added to the cart",
		}, []string{"product_id"}),

		SessionOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "operations_total",
			Help:      "Total number of session store operations",
		}, []string{"operation", "status"}),
		SessionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "operation_duration_seconds",
			Help:      "Duration of session store operations",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		}, []string{"operation"}),
	}
}

// New returns metrics registered on a private registry; handy for tests.
func New(namespace string) *Metrics {
	return NewMetrics(namespace, prometheus.NewRegistry())
}

// ObserveStore records the outcome of one session store call.
func (m *Metrics) ObserveStore(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.SessionOperations.WithLabelValues(operation, status).Inc()
	m.SessionLatency.WithLabelValues(operation).Observe(seconds)
}

// ObserveTransition records one booking action. failing lists the fields that
// blocked it, if any.
func (m *Metrics) ObserveTransition(action, outcome string, failing []string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(action, outcome).Inc()
	for _, f := range failing {
		m.ValidationFailures.WithLabelValues(f).Inc()
	}
}

func (m *Metrics) ObserveSubmission(seconds float64) {
	if m == nil {
		return
	}
	m.Submissions.Inc()
	m.SubmissionLatency.Observe(seconds)
}

func (m *Metrics) ObserveCartAddition(productID string) {
	if m == nil {
		return
	}
	m.CartAdditions.WithLabelValues(productID).Inc()
}
