package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa as métricas do serviço. Com namespace "doghouse":
//   - doghouse_dogs_created_total
//   - doghouse_dogs_rejected_total{reason}
//   - doghouse_store_failures_total{op}
//   - doghouse_http_requests_total{method,path,status}
//   - doghouse_http_request_duration_seconds{method,path}
//   - doghouse_throttled_requests_total{limiter}
type Metrics struct {
	DogsCreated         prometheus.Counter
	DogsRejected        *prometheus.CounterVec
	StoreFailures       *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ThrottledRequests   *prometheus.CounterVec

	namespace  string
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// NewMetrics registra as métricas em reg. Use um registry próprio por processo (e por teste).
func NewMetrics(reg *prometheus.Registry, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DogsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dogs_created_total",
			Help:      "Total number of dogs created",
		}),
		DogsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dogs_rejected_total",
			Help:      "Total number of dog creation requests rejected by validation",
		}, []string{"reason"}),
		StoreFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_failures_total",
			Help:      "Total number of record store failures by operation",
		}, []string{"op"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method and path",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ThrottledRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "throttled_requests_total",
			Help:      "Total number of requests rejected by the rate or concurrency limiter",
		}, []string{"limiter"}),
		namespace:  namespace,
		registerer: reg,
		gatherer:   reg,
	}
}

// Handler expõe o registry das métricas em formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Throttled devolve um callback para ratelimit.Options.OnReject.
func (m *Metrics) Throttled(limiter string) func(*http.Request) {
	c := m.ThrottledRequests.WithLabelValues(limiter)
	return func(*http.Request) { c.Inc() }
}

// unmatchedRoute é o label de path de toda requisição sem rota (404).
const unmatchedRoute = "unmatched"

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}

func MetricsMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)

			path := unmatchedRoute
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				path = rc.RoutePattern()
			}

			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
