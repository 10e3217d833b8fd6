package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"tinylink.local/web"
)

const requestIDHeader = "X-Request-ID"

// RequestID 透传或生成 X-Request-ID，请求头和响应头保持一致。
func RequestID() web.HandlerFunc {
	return func(c *web.Context) {
		id := c.Req.Header.Get(requestIDHeader)
		if id == "" {
			id = newRequestID()
			if id == "" {
				id = strconv.FormatInt(time.Now().UnixNano(), 10)
			}
			c.Req.Header.Set(requestIDHeader, id)
		}
		c.SetHeader(requestIDHeader, id)

		c.Next()
	}
}

func newRequestID() string {
	src := make([]byte, 16)
	if _, err := rand.Read(src); err != nil {
		return ""
	}
	return hex.EncodeToString(src)
}
