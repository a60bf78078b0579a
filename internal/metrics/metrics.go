// Package metrics holds the Prometheus collectors for the API client and session store.
// Every method is safe to call on a nil *Collector, which records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recruit_console"

// Refresh outcomes.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
	RefreshShared  = "shared" // joined a refresh already in flight
	RefreshSkipped = "skipped"
)

// Collector holds all metrics for the console client.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RefreshTotal    *prometheus.CounterVec
	LogoutsTotal    prometheus.Counter
}

// New creates and registers all metrics with the given registry.
func New(reg prometheus.Registerer) *Collector {
	return &Collector{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of backend API requests sent",
			},
			[]string{"method", "code"}, // code=200/401/.../network
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Backend API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		RefreshTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_refresh_total",
				Help:      "Token refresh attempts by outcome",
			},
			[]string{"outcome"},
		),
		LogoutsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logouts_total",
				Help:      "Total number of session logouts",
			},
		),
	}
}

// ObserveRequest records one backend round trip. A zero code means no response was received.
func (c *Collector) ObserveRequest(method string, code int, elapsed time.Duration) {
	if c == nil {
		return
	}
	label := "network"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	c.RequestsTotal.WithLabelValues(method, label).Inc()
	c.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveRefresh(outcome string) {
	if c == nil {
		return
	}
	c.RefreshTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveLogout() {
	if c == nil {
		return
	}
	c.LogoutsTotal.Inc()
}
