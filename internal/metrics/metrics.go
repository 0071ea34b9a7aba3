package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ctoken"

// Outcomes of an issuance request.
const (
	OutcomeSuccess        = "success"
	OutcomeBadRequest     = "bad_request"
	OutcomeUnauthorized   = "unauthorized"
	OutcomeIssuanceFailed = "issuance_failed"
)

// Metrics holds the collectors of the service. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	issuance          *prometheus.CounterVec
	principalsCreated prometheus.Counter
	providerCalls     *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		issuance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issuance_total",
			Help:      "Token issuance requests by flow and outcome.",
		}, []string{"flow", "outcome"}),
		principalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "principals_created_total",
			Help:      "Principals created on first use in the email flow.",
		}),
		providerCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Duration of identity provider calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "result"}),
	}
	reg.MustRegister(
		m.issuance,
		m.principalsCreated,
		m.providerCalls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveIssuance(flow, outcome string) {
	if m == nil {
		return
	}
	m.issuance.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) PrincipalCreated() {
	if m == nil {
		return
	}
	m.principalsCreated.Inc()
}

func (m *Metrics) observeProviderCall(op string, seconds float64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.providerCalls.WithLabelValues(op, result).Observe(seconds)
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
