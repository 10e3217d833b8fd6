package httpmiddleware

import (
	"strconv"
	"time"

	"tinylink.local/internal/platform/metrics"
	"tinylink.local/web"
)

// Metrics 在请求结束时上报计数、耗时和在途数。
// label 用路由模板，未匹配的请求统一记成 UNMATCHED。
func Metrics() web.HandlerFunc {
	return func(c *web.Context) {
		start := time.Now()
		metrics.HTTPInflightRequests.Inc()
		defer metrics.HTTPInflightRequests.Dec()

		defer func() {
			route := c.RoutePattern
			if route == "" {
				route = "UNMATCHED"
			}
			status := strconv.Itoa(c.Writer.Status())
			metrics.HTTPRequestsTotal.WithLabelValues(c.Method, route, status).Inc()
			metrics.HTTPRequestDurationSeconds.WithLabelValues(c.Method, route).Observe(time.Since(start).Seconds())
		}()
		c.Next()
	}
}
