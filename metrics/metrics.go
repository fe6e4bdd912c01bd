// Package metrics provides a prometheus recorder for the checkout engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements walletcheckout.MetricsRecorder on a private prometheus
// registry.
type Recorder struct {
	registry            *prometheus.Registry
	sessionsTotal       *prometheus.CounterVec
	renegotiationsTotal *prometheus.CounterVec
	submissionsTotal    *prometheus.CounterVec
	sdkLoadsTotal       *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "walletcheckout_sessions_total",
		Help: "Wallet payment sessions by terminal outcome",
	}, []string{"module", "outcome"})

	renegotiations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "walletcheckout_shipping_renegotiations_total",
		Help: "Shipping renegotiation round trips by result",
	}, []string{"module", "result"})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "walletcheckout_submissions_total",
		Help: "Native checkout form submissions fired",
	}, []string{"module"})

	sdkLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "walletcheckout_sdk_loads_total",
		Help: "Wallet SDK load attempts by result",
	}, []string{"result"})

	r := prometheus.NewRegistry()
	r.MustRegister(sessions, renegotiations, submissions, sdkLoads)

	return &Recorder{
		registry:            r,
		sessionsTotal:       sessions,
		renegotiationsTotal: renegotiations,
		submissionsTotal:    submissions,
		sdkLoadsTotal:       sdkLoads,
	}
}

// Handler exposes the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, for test gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) SessionFinished(module, outcome string) {
	r.sessionsTotal.WithLabelValues(module, outcome).Inc()
}

func (r *Recorder) RenegotiationFinished(module, result string) {
	r.renegotiationsTotal.WithLabelValues(module, result).Inc()
}

func (r *Recorder) SubmissionFired(module string) {
	r.submissionsTotal.WithLabelValues(module).Inc()
}

func (r *Recorder) SDKLoadFinished(result string) {
	r.sdkLoadsTotal.WithLabelValues(result).Inc()
}
