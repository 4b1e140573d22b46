package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	routeOutcomes       *prometheus.CounterVec
	routeExpanded       prometheus.Histogram
	routeCacheHits      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadroute",
			Name:      "http_requests_total",
			Help:      "number of http requests by route pattern, method and status code.",
		}, []string{"path", "method", "code"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roadroute",
			Name:      "http_request_duration_seconds",
			Help:      "http request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		routeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadroute",
			Name:      "route_calculations_total",
			Help:      "number of route calculations by outcome.",
		}, []string{"outcome"}),
		routeExpanded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadroute",
			Name:      "route_expanded_junctions",
			Help:      "junctions expanded per route calculation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		routeCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadroute",
			Name:      "route_cache_lookups_total",
			Help:      "route cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.httpRequests, m.httpRequestDuration, m.routeOutcomes, m.routeExpanded, m.routeCacheHits)
	return m
}

func (m *Metrics) observeRoute(outcome string, expanded int, cached bool) {
	m.routeOutcomes.WithLabelValues(outcome).Inc()
	if cached {
		m.routeCacheHits.WithLabelValues("hit").Inc()
		return
	}
	m.routeCacheHits.WithLabelValues("miss").Inc()
	m.routeExpanded.Observe(float64(expanded))
}

// PromeHttpMiddleware counts requests and records their latency, labelled with the chi route pattern.
func PromeHttpMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.httpRequests.WithLabelValues(path, r.Method, strconv.Itoa(status)).Inc()
			m.httpRequestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		}
		return http.HandlerFunc(fn)
	}
}
