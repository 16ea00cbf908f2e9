package gateway

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics метрики исходящих вызовов бэкенда.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medvault",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend calls by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medvault",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Middleware возвращает middleware, учитывающий каждый вызов.
func (m *Metrics) Middleware() Middleware {
	if m == nil {
		return nil
	}
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.Do(req)
			m.duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(req.Method, outcome(resp, err)).Inc()
			return resp, err
		})
	}
}

func outcome(resp *http.Response, err error) string {
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return "blocked"
	case err != nil:
		return "network_error"
	default:
		return strconv.Itoa(resp.StatusCode/100) + "xx"
	}
}
