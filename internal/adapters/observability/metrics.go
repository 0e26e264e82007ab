package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pms", Name: "http_requests_total", Help: "Ops HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pms", Name: "http_request_duration_seconds",
			Help:    "Ops HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pms", Name: "external_requests_total", Help: "Outbound PMS API requests."},
		[]string{"endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pms", Name: "external_request_duration_seconds",
			Help:    "Outbound PMS API request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	ThrottleEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pms", Name: "throttle_events_total", Help: "Throttle events by kind."},
		[]string{"endpoint", "kind"}, // kind: proactive|reactive
	)
	BookingSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pms", Name: "booking_syncs_total", Help: "Booking sync task outcomes."},
		[]string{"result"}, // result: ok|assemble_failed|persist_failed
	)
)

// Serve starts a standalone metrics listener when METRICS_ADDR is set. The
// worker exposes /metrics on its ops router instead; this is for the one-shot
// sync command.
func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(InitRegistry()))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, ThrottleEvents, BookingSyncs)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one upstream request. endpoint is the route
// template ("/bookings/{id}"), never the concrete path, to keep label
// cardinality bounded.
func ObserveExternal(endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func ObserveThrottle(endpoint, kind string) { // kind: proactive|reactive
	ThrottleEvents.WithLabelValues(endpoint, kind).Inc()
}

func ObserveBookingSync(result string) {
	BookingSyncs.WithLabelValues(result).Inc()
}
