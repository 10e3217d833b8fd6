package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
)

func trace(message string) string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:]) // skip runtime.Callers, trace, the deferred func

	var sb strings.Builder
	sb.WriteString(message + "\nTraceback:")
	for _, pc := range pcs[:n] {
		fn := runtime.FuncForPC(pc)
		file, line := fn.FileLine(pc)
		sb.WriteString(fmt.Sprintf("\n\t%s:%d", file, line))
	}
	return sb.String()
}

// Recovery 捕获 handler panic：单个请求的失败不能拖垮进程。
// 已经写过响应头时只能中止，不能再写 500。
func Recovery() HandlerFunc {
	return func(c *Context) {
		defer func() {
			if err := recover(); err != nil {
				message := fmt.Sprintf("%v", err)
				slog.Error("panic recovered",
					"request_id", c.Req.Header.Get("X-Request-ID"),
					"method", c.Method,
					"path", c.Path,
					"panic", err,
					"stack", trace(message),
				)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithError(http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		c.Next()
	}
}
