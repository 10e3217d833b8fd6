package links

import (
	"net/url"
	"regexp"
	"strings"
)

var codeRe = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// IsValidCode 校验短码格式：6~8 位字母数字。纯函数，无 I/O。
// 自动生成的码固定 6 位，7~8 位只能来自用户自定义。
func IsValidCode(s string) bool {
	return codeRe.MatchString(s)
}

// IsValidURL 校验跳转目标：必须是 scheme 为 http/https 的绝对 URL。
// 相对路径、空 host、解析失败一律返回 false，不抛错。
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if strings.TrimSpace(u.Host) == "" {
		return false
	}
	return true
}
