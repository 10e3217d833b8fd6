package web

import (
	"log/slog"
	"net/http"
	"strings"
)

// Engine 是整个 web 包的入口：持有路由树和所有分组。
// 实现 http.Handler，可直接交给 http.Server 使用。
type Engine struct {
	*RouterGroup
	router   *router
	groups   []*RouterGroup
	noRoute  []HandlerFunc
	noMethod []HandlerFunc
}

// RouterGroup 表示一个路由前缀分组，分组可以嵌套，各自携带中间件。
type RouterGroup struct {
	prefix      string
	middlewares []HandlerFunc
	parent      *RouterGroup
	engine      *Engine
}

func New() *Engine {
	e := &Engine{router: newRouter()}
	e.noRoute = []HandlerFunc{func(c *Context) {
		c.String(http.StatusNotFound, "404 NOT FOUND %s", c.Path)
	}}
	e.noMethod = []HandlerFunc{func(c *Context) {
		c.String(http.StatusMethodNotAllowed, "405 Method Not Allowed %s", c.Path)
	}}
	e.RouterGroup = &RouterGroup{engine: e}
	e.groups = []*RouterGroup{e.RouterGroup}
	return e
}

// Default 返回带 Recovery 的引擎，适合快速起步。
func Default() *Engine {
	e := New()
	e.Use(Recovery())
	return e
}

// NoRoute 覆盖默认的 404 处理链。
func (e *Engine) NoRoute(handlers ...HandlerFunc) {
	e.noRoute = handlers
}

// NoMethod 覆盖默认的 405 处理链。
func (e *Engine) NoMethod(handlers ...HandlerFunc) {
	e.noMethod = handlers
}

// Group 创建子分组，前缀在父分组之上拼接。
func (g *RouterGroup) Group(prefix string) *RouterGroup {
	engine := g.engine
	child := &RouterGroup{
		prefix: g.prefix + prefix,
		parent: g,
		engine: engine,
	}
	engine.groups = append(engine.groups, child)
	return child
}

// Use 给分组追加中间件，对该前缀下的所有路由生效（包括 404/405）。
func (g *RouterGroup) Use(middlewares ...HandlerFunc) {
	g.middlewares = append(g.middlewares, middlewares...)
}

func (g *RouterGroup) addRoute(method string, comp string, handlers ...HandlerFunc) {
	pattern := g.prefix + comp
	slog.Debug("route registered", "method", method, "pattern", pattern)
	g.engine.router.addRoute(method, pattern, handlers...)
}

func (g *RouterGroup) GET(pattern string, handlers ...HandlerFunc) {
	g.addRoute(http.MethodGet, pattern, handlers...)
}

func (g *RouterGroup) POST(pattern string, handlers ...HandlerFunc) {
	g.addRoute(http.MethodPost, pattern, handlers...)
}

func (g *RouterGroup) DELETE(pattern string, handlers ...HandlerFunc) {
	g.addRoute(http.MethodDelete, pattern, handlers...)
}

// ServeHTTP implements http.Handler.
func (e *Engine) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var middlewares []HandlerFunc
	for _, group := range e.groups {
		if strings.HasPrefix(req.URL.Path, group.prefix) {
			middlewares = append(middlewares, group.middlewares...)
		}
	}
	c := newContext(w, req)
	c.handlers = middlewares
	c.engine = e
	e.router.handle(c)
}

// Run starts an HTTP server on addr with the engine as handler.
func (e *Engine) Run(addr string) error {
	return http.ListenAndServe(addr, e)
}
