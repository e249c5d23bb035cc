package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequestsTotal считает обработанные HTTP-запросы по маршруту, методу и статусу
var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bugtracker_http_requests_total",
		Help: "Total number of HTTP requests processed",
	},
	[]string{"path", "method", "status"},
)

// HTTPRequestDuration - распределение длительности обработки запросов
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "bugtracker_http_request_duration_seconds",
		Help:    "Latency in seconds to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"path", "method"},
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
}

// Middleware записывает счетчик и длительность каждого запроса для Prometheus
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// Используем шаблон маршрута (/bugs/:id), а не конкретный URL
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := fmt.Sprintf("%d", c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(path, method, status).Inc()
		HTTPRequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
	}
}
