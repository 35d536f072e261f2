package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ProgressSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_saves_total",
			Help: "Progress checkpoints by outcome",
		},
		[]string{"action"},
	)

	AnswerUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answer_upserts_total",
			Help: "Answer upserts by operation",
		},
		[]string{"op"},
	)

	ResultsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "results_finalized_total",
			Help: "Finalize calls, split by whether a new result row was written",
		},
		[]string{"created"},
	)

	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Item store failures by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, RequestDuration, ProgressSaves, AnswerUpserts, ResultsFinalized, StoreErrors)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestCounter.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
