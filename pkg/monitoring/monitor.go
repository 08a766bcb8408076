package monitoring

import (
	"strconv"
	"sync"
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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// AttemptEvents 作答生命周期事件：started / resumed / graded / expired / exhausted / swept
	AttemptEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempt_events_total",
			Help: "Quiz attempt lifecycle transitions",
		},
		[]string{"event"},
	)

	AttemptScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_attempt_score",
			Help:    "Score of graded quiz attempts",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AttemptEvents)
		prometheus.MustRegister(AttemptScore)
	})
}

func RecordAttemptEvent(event string) {
	AttemptEvents.WithLabelValues(event).Inc()
}

func RecordAttemptEvents(event string, n int64) {
	if n > 0 {
		AttemptEvents.WithLabelValues(event).Add(float64(n))
	}
}

func ObserveScore(score int) {
	AttemptScore.Observe(float64(score))
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
