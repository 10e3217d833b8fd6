package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Prometheus registry 不允许重复注册同名指标，Init 只能生效一次。
	once sync.Once

	// HTTPRequestsTotal 按方法/路由模板/状态码累计请求数。
	// route 必须用模板（/api/links/:code）而不是真实 path，避免无限 label。
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds 记录请求耗时分布，供 P95/P99 查询。
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// HTTPInflightRequests 是当前在途请求数，观察并发压力。
	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// LinkRedirectsTotal 累计成功跳转次数（与数据库 clicks 的增量一致）。
	LinkRedirectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "link_redirects_total",
			Help: "Total number of successful short link redirects.",
		},
	)

	// LinkCodeCollisionsTotal 累计插入时撞到唯一约束的次数
	// （自动生成码的碰撞 + 自定义码冲突）。正常情况下接近 0。
	LinkCodeCollisionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "link_code_collisions_total",
			Help: "Total number of short code unique violations on insert.",
		},
	)
)

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			LinkRedirectsTotal,
			LinkCodeCollisionsTotal,
		)
	})
}
