package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service level collectors. A nil *Metrics records nothing.
type Metrics struct {
	submissions     *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coachdash",
			Name:      "registration_submissions_total",
			Help:      "Registration submissions by outcome.",
		}, []string{"outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coachdash",
			Name:      "attachments_rejected_total",
			Help:      "Uploaded files rejected before staging, by reason.",
		}, []string{"reason"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coachdash",
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of calls to the remote API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
	}
	reg.MustRegister(m.submissions, m.rejected, m.backendDuration)
	return m
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AttachmentRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// ObserveBackendRequest implements backend.RequestObserver. Status 0 means the
// request never got a response.
func (m *Metrics) ObserveBackendRequest(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendDuration.WithLabelValues(endpoint, label).Observe(d.Seconds())
}
