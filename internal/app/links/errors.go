package links

import "errors"

// 领域层统一错误：上层（HTTP）只依赖这些哨兵值做状态码映射，
// 不关心底层是 SQL 约束还是校验规则。
var (
	ErrInvalidURL  = errors.New("invalid target url")
	ErrInvalidCode = errors.New("invalid code")
	// ErrCodeTaken：短码已被未删除的链接占用（显式自定义码冲突，不重试）。
	ErrCodeTaken = errors.New("code already exists")
	ErrNotFound  = errors.New("link not found")
	// ErrGenerationExhausted：随机码连续碰撞耗尽重试额度。
	// 62^6 的键空间下几乎不可能发生，但必须处理而不是死循环。
	ErrGenerationExhausted = errors.New("could not generate a unique short code")
)
