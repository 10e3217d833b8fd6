package links

import (
	"crypto/rand"
	"fmt"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratedCodeLen 是自动生成短码的固定长度。
const GeneratedCodeLen = 6

// NewCode 用加密随机源生成一个 6 位短码，62 个字符等概率。
// 每次调用独立，不携带任何状态；不可预测性靠 crypto/rand 保证。
func NewCode() (string, error) {
	out := make([]byte, 0, GeneratedCodeLen)
	buf := make([]byte, GeneratedCodeLen*2)
	for len(out) < GeneratedCodeLen {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("code generation: %w", err)
		}
		for _, b := range buf {
			// 62*4=248：丢弃 248 以上的字节，保证取模后分布均匀。
			if b >= 248 {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == GeneratedCodeLen {
				break
			}
		}
	}
	return string(out), nil
}
