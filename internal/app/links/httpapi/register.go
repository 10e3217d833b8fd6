package httpapi

import (
	"tinylink.local/internal/app/links"
	"tinylink.local/web"
)

// RegisterAPIRoutes 在给定分组（通常是 /api）下挂载链接管理 API。
// cmd/api 只负责组装，路由归各业务模块自己声明。
func RegisterAPIRoutes(api *web.RouterGroup, svc *links.Service, baseURL string) {
	api.POST("/links", NewCreateHandler(svc, baseURL))
	api.GET("/links", NewListHandler(svc))
	api.GET("/links/:code", NewGetHandler(svc))
	api.DELETE("/links/:code", NewDeleteHandler(svc))
}

// RegisterPublicRoutes 挂载根路径的跳转入口。
// 跳转刻意不放在 /api 下：短链的使用方式就是直接在浏览器输入 /{code}。
func RegisterPublicRoutes(engine *web.Engine, svc *links.Service) {
	engine.GET("/:code", NewRedirectHandler(svc))
}
