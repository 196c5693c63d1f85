package tier

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by a Client
type Metrics struct {
	CallsTotal     *prometheus.CounterVec
	CallDuration   *prometheus.HistogramVec
	OverageUnits   *prometheus.CounterVec
	OverageDenials *prometheus.CounterVec
}

// NewMetrics creates the client collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		CallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tier_client_calls_total",
				Help: "Total number of Tier API calls by endpoint and outcome",
			},
			[]string{"endpoint", "method", "outcome"},
		),
		CallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tier_client_call_duration_seconds",
				Help:    "Tier API round trip duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
		OverageUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tier_client_overage_units_total",
				Help: "Units reserved beyond the plan limit",
			},
			[]string{"feature"},
		),
		OverageDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tier_client_overage_denials_total",
				Help: "Reservations rejected locally because overage was not allowed",
			},
			[]string{"feature"},
		),
	}

	for _, c := range []prometheus.Collector{m.CallsTotal, m.CallDuration, m.OverageUnits, m.OverageDenials} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observeCall records one round trip. A nil receiver is a no-op.
func (m *Metrics) observeCall(endpoint, method string, status int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(endpoint, method, callOutcome(status, err)).Inc()
	m.CallDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeOverage(feature string, overage int, denied bool) {
	if m == nil || overage <= 0 {
		return
	}
	if denied {
		m.OverageDenials.WithLabelValues(feature).Inc()
		return
	}
	m.OverageUnits.WithLabelValues(feature).Add(float64(overage))
}

func callOutcome(status int, err error) string {
	var (
		apiErr   *APIError
		parseErr *ParseError
	)
	switch {
	case errors.As(err, &apiErr):
		return "api_error_" + strconv.Itoa(status)
	case errors.As(err, &parseErr):
		return "parse_error"
	case err != nil:
		return "transport_error"
	default:
		return strconv.Itoa(status)
	}
}
