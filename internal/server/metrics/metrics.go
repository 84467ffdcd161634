// Package metrics exposes the server's Prometheus counters. A nil *Metrics
// is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "photofeed"

type Metrics struct {
	registry *prometheus.Registry

	PostsCreated    prometheus.Counter
	FanoutEntries   prometheus.Counter
	FanoutFailures  prometheus.Counter
	MessagesSent    prometheus.Counter
	Likes           *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	CascadeFailures *prometheus.CounterVec
	PublishFailures *prometheus.CounterVec
}

// New registers all collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PostsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "posts_created_total",
			Help: "Posts successfully created.",
		}),
		FanoutEntries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "fanout_entries_total",
			Help: "Feed entries written by post fan-out.",
		}),
		FanoutFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "fanout_failed_batches_total",
			Help: "Follower batches whose feed insert failed.",
		}),
		MessagesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "messages_sent_total",
			Help: "Direct messages stored.",
		}),
		Likes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "likes_total",
			Help: "Like state changes by operation.",
		}, []string{"op"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "notifications_total",
			Help: "Notifications appended by type.",
		}, []string{"type"}),
		CascadeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "delete_cascade_failures_total",
			Help: "Post delete cleanup branches that failed.",
		}, []string{"branch"}),
		PublishFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "event_publish_failures_total",
			Help: "Events the bus refused.",
		}, []string{"subject"}),
	}
}

func (m *Metrics) PostCreated() {
	if m != nil {
		m.PostsCreated.Inc()
	}
}

func (m *Metrics) FanoutWritten(n int) {
	if m != nil {
		m.FanoutEntries.Add(float64(n))
	}
}

func (m *Metrics) FanoutFailed() {
	if m != nil {
		m.FanoutFailures.Inc()
	}
}

func (m *Metrics) MessageSent() {
	if m != nil {
		m.MessagesSent.Inc()
	}
}

func (m *Metrics) Like(op string) {
	if m != nil {
		m.Likes.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) Notification(typ string) {
	if m != nil {
		m.Notifications.WithLabelValues(typ).Inc()
	}
}

func (m *Metrics) CascadeFailed(branch string) {
	if m != nil {
		m.CascadeFailures.WithLabelValues(branch).Inc()
	}
}

func (m *Metrics) PublishFailed(subject string) {
	if m != nil {
		m.PublishFailures.WithLabelValues(subject).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
