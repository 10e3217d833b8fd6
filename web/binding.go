package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ShouldBindJSON 把请求体解析成 dst，只接受单个 JSON 值，拒绝未知字段。
func (c *Context) ShouldBindJSON(dst any) error {
	decoder := json.NewDecoder(c.Req.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON value")
	}
	return nil
}

// BindJSON 解析失败时直接写 400 响应，调用方只需 return。
func (c *Context) BindJSON(dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithError(http.StatusBadRequest, "invalid json")
		return err
	}
	return nil
}
