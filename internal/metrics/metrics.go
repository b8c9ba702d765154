// Package metrics регистрирует Prometheus-метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedback_board"

// Metrics — набор коллекторов HTTP-слоя и бизнес-событий.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec

	usersRegistered prometheus.Counter
	usersDeleted    prometheus.Counter
	loginsFailed    prometheus.Counter
	feedbackCreated prometheus.Counter
	feedbackUpdated prometheus.Counter
	feedbackDeleted prometheus.Counter
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		usersRegistered: counter("users_registered_total", "Accounts created."),
		usersDeleted:    counter("users_deleted_total", "Accounts deleted."),
		loginsFailed:    counter("logins_failed_total", "Rejected login attempts."),
		feedbackCreated: counter("feedback_created_total", "Feedback entries created."),
		feedbackUpdated: counter("feedback_updated_total", "Feedback entries updated."),
		feedbackDeleted: counter("feedback_deleted_total", "Feedback entries deleted."),
	}
}

// Методы ниже безопасно вызывать на nil.

func (m *Metrics) UserRegistered()  { inc(m, func(m *Metrics) prometheus.Counter { return m.usersRegistered }) }
func (m *Metrics) UserDeleted()     { inc(m, func(m *Metrics) prometheus.Counter { return m.usersDeleted }) }
func (m *Metrics) LoginFailed()     { inc(m, func(m *Metrics) prometheus.Counter { return m.loginsFailed }) }
func (m *Metrics) FeedbackCreated() { inc(m, func(m *Metrics) prometheus.Counter { return m.feedbackCreated }) }
func (m *Metrics) FeedbackUpdated() { inc(m, func(m *Metrics) prometheus.Counter { return m.feedbackUpdated }) }
func (m *Metrics) FeedbackDeleted() { inc(m, func(m *Metrics) prometheus.Counter { return m.feedbackDeleted }) }

func inc(m *Metrics, pick func(*Metrics) prometheus.Counter) {
	if m == nil {
		return
	}
	pick(m).Inc()
}
