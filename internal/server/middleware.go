package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Logger attaches a request-scoped logger to the request context and logs each completed request.
func Logger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Str("request_id", middleware.GetReqID(req.Context())).
				Logger()

			ctx := reqLogger.WithContext(req.Context())
			req = req.WithContext(ctx)

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)

			reqLogger.Debug().
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request completed")
		})
	}
}

// metrics holds the collectors exported on /metrics.
type metrics struct {
	requests      *prometheus.CounterVec
	reports       *prometheus.CounterVec
	reportSeconds prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmstat",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmstat",
			Name:      "reports_total",
			Help:      "Generated reports by outcome.",
		}, []string{"outcome"}),
		reportSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "farmstat",
			Name:      "report_generation_seconds",
			Help:      "Time spent assembling a report, including both record fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.requests, m.reports, m.reportSeconds)
	return m
}

// instrument counts requests by their chi route pattern, so path parameters do not explode cardinality.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

// observeReport records the outcome and latency of one report.
func (m *metrics) observeReport(outcome string, elapsed time.Duration) {
	m.reports.WithLabelValues(outcome).Inc()
	m.reportSeconds.Observe(elapsed.Seconds())
}
