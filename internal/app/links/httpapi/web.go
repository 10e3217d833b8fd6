package httpapi

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"tinylink.local/web"
)

//go:embed static/*
var staticFS embed.FS

// RegisterWebRoutes 挂载内置的管理页面，静态文件编译进二进制。
// 注意 / 和 /static 都是精确段，不会抢到 /:code 的跳转流量。
func RegisterWebRoutes(r *web.Engine) {
	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("httpapi: static subdirectory missing: " + err.Error())
	}

	r.GET("/", func(c *web.Context) {
		data, err := fs.ReadFile(staticRoot, "index.html")
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, "index.html not found")
			return
		}
		c.SetHeader("Content-Type", "text/html; charset=utf-8")
		c.Data(http.StatusOK, data)
	})

	// 单条链接的统计页，数据由页面里的脚本走 /api/links/:code 拉取。
	r.GET("/code/:code", func(c *web.Context) {
		data, err := fs.ReadFile(staticRoot, "code.html")
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, "code.html not found")
			return
		}
		c.SetHeader("Content-Type", "text/html; charset=utf-8")
		c.Data(http.StatusOK, data)
	})

	r.GET("/static/*filepath", func(c *web.Context) {
		name := c.Param("filepath")
		data, err := fs.ReadFile(staticRoot, name)
		if err != nil {
			c.AbortWithError(http.StatusNotFound, "file not found")
			return
		}

		contentType := "application/octet-stream"
		switch {
		case strings.HasSuffix(name, ".js"):
			contentType = "application/javascript; charset=utf-8"
		case strings.HasSuffix(name, ".css"):
			contentType = "text/css; charset=utf-8"
		}
		c.SetHeader("Content-Type", contentType)
		c.Data(http.StatusOK, data)
	})

	// favicon 请求静音处理，省掉日志里的 404 噪音
	r.GET("/favicon.ico", func(c *web.Context) {
		c.Status(http.StatusNoContent)
	})
}
