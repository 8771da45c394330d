package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "inbound http requests by route, method and status"},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "inbound http request latency", Buckets: prometheus.DefBuckets},
		[]string{"route", "method"},
	)
	RemoteStoreRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "remote_store_requests_total", Help: "outbound remote store calls by method and outcome"},
		[]string{"method", "outcome"},
	)
	RemoteStoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "remote_store_request_duration_seconds", Help: "outbound remote store call latency", Buckets: prometheus.DefBuckets},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, RemoteStoreRequests, RemoteStoreLatency)
}

func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	HTTPLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// ObserveRemote records one remote store call. outcome is the status code, or "error" on transport failure.
func ObserveRemote(method string, outcome string, elapsed time.Duration) {
	RemoteStoreLatency.WithLabelValues(method).Observe(elapsed.Seconds())
	RemoteStoreRequests.WithLabelValues(method, outcome).Inc()
}

func Handler() http.Handler { return promhttp.Handler() }
