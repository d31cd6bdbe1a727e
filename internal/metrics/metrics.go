package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Request latency in seconds, by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_clients",
		Help: "Currently connected websocket clients.",
	})

	NoticesPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notices_published_total",
		Help: "Notices pushed through the event bus.",
	})
)

// Register registers all collectors on the given registry (or the default
// when nil), tolerating duplicate registration across tests.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	collectors := []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		WebsocketClients,
		NoticesPublished,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	return nil
}
