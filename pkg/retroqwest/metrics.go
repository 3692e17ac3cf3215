package retroqwest

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type callMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newCallMetrics(reg prometheus.Registerer) (*callMetrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retroqwest",
		Name:      "requests_total",
		Help:      "Number of client calls by service, method, status and outcome.",
	}, []string{"service", "method", "status", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "retroqwest",
		Name:      "request_duration_seconds",
		Help:      "Time spent sending a request and reading its response.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "method"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &callMetrics{requests: requests, duration: duration}, nil
}

// register reuses an existing collector when several clients share a registry
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *callMetrics) observe(service, method string, status int, outcome string, elapsed time.Duration) {
	code := "none"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(service, method, code, outcome).Inc()
	m.duration.WithLabelValues(service, method).Observe(elapsed.Seconds())
}
