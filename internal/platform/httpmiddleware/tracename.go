package httpmiddleware

import (
	"go.opentelemetry.io/otel/trace"
	"tinylink.local/web"
)

// TraceName 把 otelhttp 建的 span 改名成“方法 + 路由模板”，
// 否则所有请求都挤在同一个 span 名下。
func TraceName() web.HandlerFunc {
	return func(c *web.Context) {
		span := trace.SpanFromContext(c.Req.Context())
		span.SetName(c.Method + " " + c.RoutePattern)
		c.Next()
	}
}
