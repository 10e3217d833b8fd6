package middleware

import (
	"log/slog"
	"time"

	"tinylink.local/web"
)

// AccessLog 每个请求结束后输出一条结构化访问日志。
func AccessLog() web.HandlerFunc {
	return func(c *web.Context) {
		start := time.Now()

		c.Next()

		slog.Info("access",
			"request_id", c.Req.Header.Get("X-Request-ID"),
			"method", c.Method,
			"path", c.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"latency_ms", time.Since(start).Milliseconds())
	}
}
