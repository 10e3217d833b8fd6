package httpapi

import (
	"errors"
	"net/http"

	"tinylink.local/internal/app/links"
	"tinylink.local/internal/platform/metrics"
	"tinylink.local/web"
)

// 本包只做传输层翻译：HTTP <-> 领域（参数提取、错误映射、响应格式）。
// 业务规则都在 internal/app/links，这里不做任何校验之外的判断。

type CreateLinkRequest struct {
	Target string `json:"target"`
	Code   string `json:"code,omitempty"`
}

type CreateLinkResponse struct {
	Code     string `json:"code"`
	Target   string `json:"target"`
	ShortURL string `json:"short_url"`
}

// shortURL 拼完整短链：配置了 BASE_URL 用配置值（反向代理场景），
// 否则按请求的 Host 推导。
func shortURL(c *web.Context, baseURL, code string) string {
	if baseURL != "" {
		return baseURL + "/" + code
	}
	scheme := "http"
	if c.Req.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Req.Host + "/" + code
}

func NewCreateHandler(svc *links.Service, baseURL string) web.HandlerFunc {
	return func(c *web.Context) {
		var req CreateLinkRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}

		link, err := svc.Create(c.Req.Context(), req.Target, req.Code)
		if err != nil {
			switch {
			case errors.Is(err, links.ErrInvalidURL), errors.Is(err, links.ErrInvalidCode):
				c.AbortWithError(http.StatusBadRequest, err.Error())
			case errors.Is(err, links.ErrCodeTaken):
				c.AbortWithError(http.StatusConflict, err.Error())
			case errors.Is(err, links.ErrGenerationExhausted):
				c.AbortWithError(http.StatusInternalServerError, err.Error())
			default:
				// 数据库细节不能漏给客户端
				c.AbortWithError(http.StatusInternalServerError, "internal server error")
			}
			return
		}

		c.JSON(http.StatusCreated, CreateLinkResponse{
			Code:     link.Code,
			Target:   link.Target,
			ShortURL: shortURL(c, baseURL, link.Code),
		})
	}
}

func NewListHandler(svc *links.Service) web.HandlerFunc {
	return func(c *web.Context) {
		result, err := svc.List(c.Req.Context(), c.Query("q"))
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, "internal server error")
			return
		}
		if result == nil {
			result = []links.Link{} // 空列表输出 [] 而不是 null
		}
		c.JSON(http.StatusOK, result)
	}
}

func NewGetHandler(svc *links.Service) web.HandlerFunc {
	return func(c *web.Context) {
		link, err := svc.Get(c.Req.Context(), c.Param("code"))
		if err != nil {
			if errors.Is(err, links.ErrNotFound) {
				c.AbortWithError(http.StatusNotFound, "not found")
				return
			}
			c.AbortWithError(http.StatusInternalServerError, "internal server error")
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

func NewDeleteHandler(svc *links.Service) web.HandlerFunc {
	return func(c *web.Context) {
		if err := svc.Delete(c.Req.Context(), c.Param("code")); err != nil {
			if errors.Is(err, links.ErrNotFound) {
				c.AbortWithError(http.StatusNotFound, "not found")
				return
			}
			c.AbortWithError(http.StatusInternalServerError, "internal server error")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// NewRedirectHandler 处理短链入口本身：计数和取 target 在存储层是一次原子操作。
// 失败分支返回纯文本，浏览器地址栏场景不需要 JSON。
func NewRedirectHandler(svc *links.Service) web.HandlerFunc {
	return func(c *web.Context) {
		target, err := svc.Resolve(c.Req.Context(), c.Param("code"))
		if err != nil {
			if errors.Is(err, links.ErrNotFound) {
				c.String(http.StatusNotFound, "Not found")
				c.Abort()
				return
			}
			c.String(http.StatusInternalServerError, "internal server error")
			c.Abort()
			return
		}

		metrics.LinkRedirectsTotal.Inc()
		c.Redirect(http.StatusFound, target)
	}
}
