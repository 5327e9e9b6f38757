// Package metrics exposes Prometheus counters for the dialog and the trip store.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rideboard"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	transitions     *prometheus.CounterVec
	invalidInput    *prometheus.CounterVec
	postingsCreated prometheus.Counter
	storageErrors   *prometheus.CounterVec
	listingsServed  *prometheus.CounterVec
	postingsStored  prometheus.Gauge
	sessionsActive  prometheus.Gauge
}

// MustNew registers the collectors with reg, or with the default registerer
// when reg is nil. Collectors already registered under the same name are
// reused. Any other registration error panics.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		transitions: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialog",
			Name:      "transitions_total",
			Help:      "Dialog state transitions.",
		}, []string{"from", "to"})),
		invalidInput: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialog",
			Name:      "invalid_input_total",
			Help:      "User inputs rejected by a field validator.",
		}, []string{"state", "reason"})),
		postingsCreated: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "postings_created_total",
			Help:      "Trip postings written to the store.",
		})),
		storageErrors: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Trip store operations that failed.",
		}, []string{"op"})),
		listingsServed: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_served_total",
			Help:      "Listings sent to users, by context.",
		}, []string{"context"})),
		postingsStored: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "postings_stored",
			Help:      "Trip postings currently in the store.",
		})),
		sessionsActive: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Dialog sessions held in memory.",
		})),
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) InvalidInput(state, reason string) {
	if m == nil {
		return
	}
	m.invalidInput.WithLabelValues(state, reason).Inc()
}

func (m *Metrics) PostingCreated() {
	if m == nil {
		return
	}
	m.postingsCreated.Inc()
}

func (m *Metrics) StorageError(op string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) ListingServed(context string) {
	if m == nil {
		return
	}
	m.listingsServed.WithLabelValues(context).Inc()
}

func (m *Metrics) SetPostingsStored(n int64) {
	if m == nil {
		return
	}
	m.postingsStored.Set(float64(n))
}

func (m *Metrics) SetSessionsActive(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}
