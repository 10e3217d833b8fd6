package web

import "strings"

// node 是路由前缀树的节点。
// pattern 只在路由终点（叶子位置）非空，用来区分 /p 和 /p/:id 这类前缀重叠。
type node struct {
	pattern  string  // 完整路由，如 /api/links/:code
	part     string  // 当前段，如 :code
	children []*node
	isWild   bool // part 以 : 或 * 开头时为 true
}

// matchChild 返回第一个 part 完全相同的子节点，插入时使用。
func (n *node) matchChild(part string) *node {
	for _, child := range n.children {
		if child.part == part {
			return child
		}
	}
	return nil
}

// matchChildren 返回所有可能匹配的子节点，查找时使用。
// 精确匹配排在通配之前，保证 /healthz 优先于 /:code。
func (n *node) matchChildren(part string) []*node {
	nodes := make([]*node, 0, len(n.children))
	for _, child := range n.children {
		if child.part == part {
			nodes = append(nodes, child)
		}
	}
	for _, child := range n.children {
		if child.isWild {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

func (n *node) insert(pattern string, parts []string, height int) {
	if len(parts) == height {
		n.pattern = pattern
		return
	}
	part := parts[height]
	child := n.matchChild(part)
	if child == nil {
		child = &node{
			part:   part,
			isWild: part[0] == ':' || part[0] == '*',
		}
		n.children = append(n.children, child)
	}
	child.insert(pattern, parts, height+1)
}

func (n *node) search(parts []string, height int) *node {
	if len(parts) == height || strings.HasPrefix(n.part, "*") {
		if n.pattern == "" {
			return nil
		}
		return n
	}

	part := parts[height]
	for _, child := range n.matchChildren(part) {
		if result := child.search(parts, height+1); result != nil {
			return result
		}
	}
	return nil
}
