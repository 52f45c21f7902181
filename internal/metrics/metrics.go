package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks Prometheus metrics for the authentication and governance
// boundary. All recording methods handle a nil receiver gracefully, so a nil
// *Metrics acts as a no-op when metrics are disabled.
type Metrics struct {
	// Logins counts login attempts by result.
	// Labels: result=[local, directory, failure]
	Logins *prometheus.CounterVec

	// DirectoryRequests counts directory authentication attempts by outcome.
	// Labels: outcome=[resolved, rejected, unavailable]
	DirectoryRequests *prometheus.CounterVec

	// TokensIssued counts minted credentials.
	// Labels: kind=[access, refresh]
	TokensIssued *prometheus.CounterVec

	// RateLimit counts governor decisions.
	// Labels: decision=[admitted, rejected]
	RateLimit *prometheus.CounterVec
}

// New creates and registers the gateway metrics. If registerer is nil,
// prometheus.DefaultRegisterer is used.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		DirectoryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_directory_requests_total",
			Help: "Directory authentication attempts by outcome.",
		}, []string{"outcome"}),
		TokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_tokens_issued_total",
			Help: "Signed credentials minted by kind.",
		}, []string{"kind"}),
		RateLimit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_ratelimit_requests_total",
			Help: "Request governor decisions.",
		}, []string{"decision"}),
	}

	registerer.MustRegister(m.Logins, m.DirectoryRequests, m.TokensIssued, m.RateLimit)
	return m
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) DirectoryRequest(outcome string) {
	if m == nil {
		return
	}
	m.DirectoryRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TokenIssued(kind string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(kind).Inc()
}

func (m *Metrics) RateLimitDecision(decision string) {
	if m == nil {
		return
	}
	m.RateLimit.WithLabelValues(decision).Inc()
}
