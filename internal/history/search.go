package history

import (
	"path/filepath"
	"sort"
	"strings"
)

// 两级评分：文件名命中优于目录路径命中
// Two-tier scoring: filename hits rank above directory-path hits
const (
	scoreFilename = 10
	scoreFullPath = 5
)

// Search 对历史条目做快速打开匹配。空查询按 MRU 顺序返回全部；
// 否则文件名（末段，大小写不敏感）包含查询得 10 分，完整路径包含得
// 5 分，不命中剔除。按分数降序稳定排序，平分保持 MRU 先后。
// Search ranks history entries for quick-open. An empty query returns all
// entries in MRU order; otherwise a case-insensitive filename (last path
// segment) substring match scores 10, a full-path match scores 5, and
// non-matches are excluded. Descending stable sort; ties keep MRU order.
func (ix *Index) Search(query string) []string {
	entries := ix.Entries()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}

	type scored struct {
		path  string
		score int
	}
	matches := make([]scored, 0, len(entries))
	for _, path := range entries {
		name := strings.ToLower(filepath.Base(path))
		switch {
		case strings.Contains(name, query):
			matches = append(matches, scored{path, scoreFilename})
		case strings.Contains(strings.ToLower(path), query):
			matches = append(matches, scored{path, scoreFullPath})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.path)
	}
	return out
}
