package links

import (
	"context"
	"errors"
	"strings"
)

// Store 是 Service 对持久层的唯一依赖。
// 唯一性与可见性约束由存储层（数据库约束）保证，这里不做 check-then-insert。
type Store interface {
	// Insert 插入一条新链接；短码被占用时返回 ErrCodeTaken。
	Insert(ctx context.Context, code, target string) (Link, error)
	// List 返回未删除的链接，按创建时间倒序；search 非空时做大小写无关的子串过滤。
	List(ctx context.Context, search string) ([]Link, error)
	// Find 精确匹配未删除的链接；否则返回 ErrNotFound。
	Find(ctx context.Context, code string) (Link, error)
	// SoftDelete 对未删除的行打删除标记；无此行（含已删除）返回 ErrNotFound。
	SoftDelete(ctx context.Context, code string) error
	// ResolveAndCount 原子地 clicks+1、刷新 last_clicked 并返回 target；
	// 不存在或已删除返回 ErrNotFound，且不产生任何写入。
	ResolveAndCount(ctx context.Context, code string) (string, error)
}

// maxGenerateAttempts 是随机码碰撞后的总尝试次数上限。
const maxGenerateAttempts = 5

// Service 把校验、短码生成和存储编排成各个用例。
// 无内部状态，可被任意多个请求并发使用。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create 创建短链。requestedCode 为空串时自动生成短码。
//
// 行为约定：
// - target 缺失或非法：ErrInvalidURL
// - 自定义码格式非法：ErrInvalidCode
// - 自定义码已被占用：ErrCodeTaken（用户选的码冲突要如实报告，不能悄悄换码）
// - 自动生成碰撞：换码重试，总共最多 5 次，之后 ErrGenerationExhausted
func (s *Service) Create(ctx context.Context, target, requestedCode string) (Link, error) {
	if target == "" || !IsValidURL(target) {
		return Link{}, ErrInvalidURL
	}

	if code := strings.TrimSpace(requestedCode); code != "" {
		if !IsValidCode(code) {
			return Link{}, ErrInvalidCode
		}
		return s.store.Insert(ctx, code, target)
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := NewCode()
		if err != nil {
			return Link{}, err
		}
		link, err := s.store.Insert(ctx, code, target)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		return Link{}, err
	}
	return Link{}, ErrGenerationExhausted
}

// List 返回所有未删除的链接；search 过滤 code/target 子串（不分大小写）。
// 结果不分页，属于已知的规模限制。
func (s *Service) List(ctx context.Context, search string) ([]Link, error) {
	return s.store.List(ctx, strings.TrimSpace(search))
}

// Get 返回指定短码的未删除链接。短码区分大小写。
func (s *Service) Get(ctx context.Context, code string) (Link, error) {
	return s.store.Find(ctx, code)
}

// Delete 软删除：并发删除同一短码时恰好一个调用成功，其余 ErrNotFound。
// 没有恢复操作，删除对 API 而言是终态。
func (s *Service) Delete(ctx context.Context, code string) error {
	return s.store.SoftDelete(ctx, code)
}

// Resolve 返回跳转目标并完成点击计数，二者在存储层是同一个原子操作。
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	return s.store.ResolveAndCount(ctx, code)
}
