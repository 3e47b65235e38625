package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "grooming_waitlist"

// Metrics holds the Prometheus collectors for the offer lifecycle.
type Metrics struct {
	// OffersCreated counts offers that notified at least one entry.
	OffersCreated prometheus.Counter

	// CandidatesNotified counts entries moved to notified.
	CandidatesNotified prometheus.Counter

	// CandidatesSkipped counts candidates lost to a concurrent offer.
	CandidatesSkipped prometheus.Counter

	// Resolutions counts inbound replies by outcome.
	Resolutions *prometheus.CounterVec

	// SweptOffers and SweptEntries count sweeper expirations.
	SweptOffers  prometheus.Counter
	SweptEntries prometheus.Counter

	// SweepDuration is the time one sweep pass takes.
	SweepDuration prometheus.Histogram

	// CompensationFailures must stay at zero; any increment needs manual reconciliation.
	CompensationFailures prometheus.Counter

	// NotificationsDispatched counts relay deliveries by result.
	NotificationsDispatched *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer in production
// and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OffersCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_created_total",
			Help:      "Total number of slot offers created",
		}),
		CandidatesNotified: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_notified_total",
			Help:      "Total number of waitlist entries moved to notified",
		}),
		CandidatesSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_skipped_total",
			Help:      "Candidates skipped because they were no longer active",
		}),
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_resolutions_total",
			Help:      "Inbound offer replies by resolved action",
		}, []string{"action"}),
		SweptOffers: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeper_expired_offers_total",
			Help:      "Offers expired by the sweeper",
		}),
		SweptEntries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeper_expired_entries_total",
			Help:      "Waitlist entries moved to expired_offer by the sweeper",
		}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time to run one expiration sweep",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15},
		}),
		CompensationFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_compensation_failures_total",
			Help:      "Claimed offers that could not be reverted after a booking failure",
		}),
		NotificationsDispatched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dispatched_total",
			Help:      "Notification jobs processed by result",
		}, []string{"result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) IncResolution(action string) {
	m.Resolutions.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveSweep(seconds float64, offers, entries int) {
	m.SweepDuration.Observe(seconds)
	m.SweptOffers.Add(float64(offers))
	m.SweptEntries.Add(float64(entries))
}

func (m *Metrics) IncDispatched(result string) {
	m.NotificationsDispatched.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}
