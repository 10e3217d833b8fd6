package web

import (
	"sort"
	"strings"
)

type HandlerFunc func(*Context)

// router 按 HTTP 方法各维护一棵前缀树；handlers 用 "METHOD-pattern" 作 key。
type router struct {
	roots    map[string]*node
	handlers map[string][]HandlerFunc
}

func newRouter() *router {
	return &router{
		roots:    make(map[string]*node),
		handlers: make(map[string][]HandlerFunc),
	}
}

// parsePattern 把 pattern 切成 parts；遇到 * 通配段就停止（通配只允许出现一次，且在末尾）。
func parsePattern(pattern string) []string {
	segs := strings.Split(pattern, "/")
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		parts = append(parts, seg)
		if seg[0] == '*' {
			break
		}
	}
	return parts
}

func (r *router) addRoute(method string, pattern string, handlers ...HandlerFunc) {
	if len(handlers) == 0 {
		panic("web: addRoute requires at least one handler")
	}
	parts := parsePattern(pattern)

	if _, ok := r.roots[method]; !ok {
		r.roots[method] = &node{}
	}
	r.roots[method].insert(pattern, parts, 0)

	key := method + "-" + pattern
	r.handlers[key] = append([]HandlerFunc(nil), handlers...)
}

func (r *router) getRoute(method string, path string) (*node, map[string]string) {
	searchParts := parsePattern(path)
	root, ok := r.roots[method]
	if !ok {
		return nil, nil
	}

	n := root.search(searchParts, 0)
	if n == nil {
		return nil, nil
	}

	params := make(map[string]string)
	for i, part := range parsePattern(n.pattern) {
		switch {
		case part[0] == ':':
			params[part[1:]] = searchParts[i]
		case part[0] == '*' && len(part) > 1:
			params[part[1:]] = strings.Join(searchParts[i:], "/")
		}
	}
	return n, params
}

func (r *router) handle(c *Context) {
	n, params := r.getRoute(c.Method, c.Path)
	if n != nil {
		c.Params = params
		c.RoutePattern = n.pattern
		key := c.Method + "-" + n.pattern
		c.handlers = append(c.handlers, r.handlers[key]...)
	} else {
		// 没有匹配的路由：区分 404 和 405，405 时带上 Allow 头。
		allow := r.allowedMethods(c.Path)
		if len(allow) == 0 {
			c.handlers = append(c.handlers, c.engine.noRoute...)
		} else {
			c.SetHeader("Allow", strings.Join(allow, ","))
			c.handlers = append(c.handlers, c.engine.noMethod...)
		}
	}
	c.Next()
}

func (r *router) allowedMethods(path string) (allow []string) {
	for method := range r.roots {
		if n, _ := r.getRoute(method, path); n != nil {
			allow = append(allow, method)
		}
	}
	sort.Strings(allow)
	return allow
}
