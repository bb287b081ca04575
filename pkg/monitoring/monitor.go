package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
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
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 业务指标
	UsersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "share_users_registered_total",
		Help: "Number of registered accounts",
	})

	FriendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "share_friend_requests_total",
			Help: "Friend request events by action (sent/accept/reject)",
		},
		[]string{"action"},
	)

	SharesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "share_shares_created_total",
			Help: "Number of created shares by type",
		},
		[]string{"type"},
	)

	MembershipUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "share_folder_membership_updates_total",
		Help: "Number of folder membership replacements",
	})
)

var (
	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

// Init 注册全部指标，可重复调用
func Init() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			RequestCounter,
			RequestDuration,
			UsersRegistered,
			FriendRequests,
			SharesCreated,
			MembershipUpdates,
		)
	})
}

// Registry 返回指标注册表（测试用）
func Registry() *prometheus.Registry {
	return registry
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
