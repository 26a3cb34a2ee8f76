package backend

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the backend's collectors on a private registry so several
// servers can coexist in one process.
type Metrics struct {
	Registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	catalogEntries  prometheus.Gauge
	resultsReturned *prometheus.HistogramVec
}

// NewMetrics registers the backend collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dsaview",
				Subsystem: "backend",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "path", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dsaview",
				Subsystem: "backend",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		catalogEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dsaview",
			Subsystem: "backend",
			Name:      "catalog_entries",
			Help:      "Number of solution files in the catalogue",
		}),
		resultsReturned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dsaview",
				Subsystem: "backend",
				Name:      "results_returned",
				Help:      "Result set size per search or filter request",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"endpoint"},
		),
	}
	m.Registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.catalogEntries,
		m.resultsReturned,
		collectors.NewGoCollector(),
	)
	return m
}

// Middleware records HTTP request duration and count.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		// chi route pattern keeps label cardinality bounded
		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		labels := []string{r.Method, route, strconv.Itoa(status)}
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(labels...).Inc()
	})
}
