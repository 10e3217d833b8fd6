package web

// ErrorResponse 是所有错误响应的统一结构，带上请求 ID 便于排查。
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestId string `json:"request_id,omitempty"`
}

func NewErrorResponse(c *Context, code int, message string) ErrorResponse {
	return ErrorResponse{
		Code:      code,
		Message:   message,
		RequestId: c.Req.Header.Get("X-Request-ID"),
	}
}
