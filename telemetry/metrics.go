package telemetry

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup outcomes.
const (
	OutcomeHit           = "hit"
	OutcomeRefresh       = "refresh"
	OutcomeRefreshFailed = "refresh_failed"
)

// Metrics groups the collectors of one client. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
}

// NewMetrics registers the collectors with registerer. Collectors that are
// already registered are reused.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "srvinv",
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Requests sent to the inventory service by method and status. Negative statuses are reserved transport failures.",
		}, []string{"method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "srvinv",
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Round-trip time of requests sent to the inventory service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "srvinv",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Resource cache lookups by collection and outcome.",
		}, []string{"collection", "outcome"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "srvinv",
			Subsystem: "cache",
			Name:      "store_failures_total",
			Help:      "Snapshots that could not be written to the cache backend.",
		}, []string{"collection"}),
	}
	if registerer == nil {
		return metrics, nil
	}

	var err error
	metrics.requests, err = register(registerer, metrics.requests)
	if err != nil {
		return nil, err
	}
	metrics.durations, err = register(registerer, metrics.durations)
	if err != nil {
		return nil, err
	}
	metrics.cacheLookups, err = register(registerer, metrics.cacheLookups)
	if err != nil {
		return nil, err
	}
	metrics.storeFailures, err = register(registerer, metrics.storeFailures)
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) (T, error) {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.durations.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCacheLookup(collection string, outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(collection, outcome).Inc()
}

func (m *Metrics) ObserveStoreFailure(collection string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(collection).Inc()
}

// WriteTextfile writes everything gathered in the text exposition format,
// for node-exporter style textfile collection of short-lived runs.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, gatherer)
}
