package web

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

type H map[string]any

// abortIndex 必须大于任何真实 handler 下标；Abort 后 Next 循环直接跳出。
const abortIndex = math.MaxInt32

// Context 贯穿一次请求的处理链，携带请求信息、路由参数和响应状态。
type Context struct {
	Writer *ResponseWriter
	Req    *http.Request

	Path         string
	Method       string
	Params       map[string]string
	RoutePattern string // 路由模板（如 /api/links/:code），给指标/trace 用，避免高基数

	handlers []HandlerFunc
	index    int

	engine *Engine
}

func newContext(w http.ResponseWriter, req *http.Request) *Context {
	return &Context{
		Writer: NewResponseWriter(w),
		Req:    req,
		Path:   req.URL.Path,
		Method: req.Method,
		index:  -1,
	}
}

// Next 依次执行链上剩余的 handler，直到结束或被 Abort。
func (c *Context) Next() {
	c.index++
	for ; c.index < len(c.handlers) && !c.IsAborted(); c.index++ {
		c.handlers[c.index](c)
	}
}

func (c *Context) Param(key string) string {
	return c.Params[key]
}

func (c *Context) Query(key string) string {
	return c.Req.URL.Query().Get(key)
}

func (c *Context) PostForm(key string) string {
	return c.Req.FormValue(key)
}

func (c *Context) Status(code int) {
	c.Writer.WriteHeader(code)
}

func (c *Context) SetHeader(key string, value string) {
	c.Writer.SetHeader(key, value)
}

func (c *Context) String(code int, format string, values ...any) {
	c.SetHeader("Content-Type", "text/plain; charset=utf-8")
	c.Status(code)
	c.Writer.Write([]byte(fmt.Sprintf(format, values...)))
}

func (c *Context) JSON(code int, obj any) {
	c.SetHeader("Content-Type", "application/json")
	c.Status(code)
	if err := json.NewEncoder(c.Writer).Encode(obj); err != nil {
		http.Error(c.Writer, err.Error(), http.StatusInternalServerError)
	}
}

func (c *Context) Data(code int, data []byte) {
	c.Status(code)
	c.Writer.Write(data)
}

// Redirect 写 Location 头并返回给定的 3xx 状态码。
func (c *Context) Redirect(code int, location string) {
	c.SetHeader("Location", location)
	c.Status(code)
}

func (c *Context) Abort() {
	c.index = abortIndex
}

func (c *Context) IsAborted() bool {
	return c.index >= abortIndex
}

func (c *Context) AbortWithStatus(code int) {
	c.Status(code)
	c.Abort()
}

func (c *Context) AbortWithStatusJSON(code int, obj any) {
	c.Abort()

	if c.Writer.Written() {
		return
	}

	bytes, err := json.Marshal(obj)
	if err != nil {
		code = http.StatusInternalServerError
		bytes = []byte(`{"code":500,"message":"Internal Server Error"}`)
	}
	c.SetHeader("Content-Type", "application/json")
	c.Status(code)
	c.Writer.Write(bytes)
}

// AbortWithError 以统一的 ErrorResponse 结构返回错误并终止处理链。
func (c *Context) AbortWithError(code int, message string) {
	c.AbortWithStatusJSON(code, NewErrorResponse(c, code, message))
}
