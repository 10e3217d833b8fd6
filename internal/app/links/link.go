package links

import "time"

// Link 是短链领域对象：一个短码指向一个目标 URL。
//
// 字段约定：
// - Code/Target 创建后不可变
// - Clicks 只增不减，由数据库原子累加
// - LastClicked 首次跳转前为空，JSON 中输出 null
// - Deleted 为软删除标记：行保留（保留历史点击数），但对外不可见
type Link struct {
	Code        string     `json:"code"`
	Target      string     `json:"target"`
	Clicks      int64      `json:"clicks"`
	LastClicked *time.Time `json:"last_clicked"`
	CreatedAt   time.Time  `json:"created_at"`
	Deleted     bool       `json:"-"`
}
