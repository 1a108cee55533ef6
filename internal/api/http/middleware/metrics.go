package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 观察接口请求指标
type Metrics struct {
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics 在给定注册器上创建请求指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "zkverify",
				Subsystem: "observer",
				Name:      "requests_total",
				Help:      "Total number of observer API requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "zkverify",
				Subsystem: "observer",
				Name:      "request_duration_seconds",
				Help:      "Observer API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "path"},
		),
	}
}

// Middleware 返回Gin中间件，按路由模板记录路径
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.requestCounter.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
