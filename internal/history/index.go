package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tabedit/internal/storage"
)

// DefaultLimit 历史条目上限 / DefaultLimit caps the history length
const DefaultLimit = 50

// ErrBlobCorrupt 历史 blob 不可解析；索引重置为空而不是报错给上层
// ErrBlobCorrupt marks an unparseable history blob; the index resets to empty
// instead of surfacing the failure
var ErrBlobCorrupt = errors.New("history blob corrupt")

// decodeEntries 解析持久化的历史 blob / decodeEntries parses the persisted blob
func decodeEntries(blob string) ([]string, error) {
	var entries []string
	if err := json.Unmarshal([]byte(blob), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlobCorrupt, err)
	}
	return entries, nil
}

// Index 最近使用文件索引：MRU 排序、去重、截断到上限。
// 每次变更都通过键值存储持久化；损坏的 blob 重置为空而不是报错。
// Index is the most-recently-used file list: MRU ordered, deduplicated,
// truncated to the cap. Every mutation persists through the KV store; a
// corrupt blob resets to empty rather than failing.
type Index struct {
	mu      sync.Mutex
	entries []string
	limit   int
	store   storage.Store
}

// New 创建索引并从存储加载 / New builds an index and loads it from the store
func New(store storage.Store, limit int) *Index {
	if limit <= 0 {
		limit = DefaultLimit
	}
	ix := &Index{limit: limit, store: store}
	ix.load()
	return ix
}

// Add 先移除既有出现，再前插，最后截断到上限
// Add removes any existing occurrence, prepends, then truncates to the cap
func (ix *Index) Add(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	ix.mu.Lock()
	ix.entries = prepend(removePath(ix.entries, path), path)
	if len(ix.entries) > ix.limit {
		ix.entries = ix.entries[:ix.limit]
	}
	ix.mu.Unlock()
	ix.persist()
}

// Remove 剔除路径（用于发现过期条目时）
// Remove filters a path out (used when an entry is found stale)
func (ix *Index) Remove(path string) {
	ix.mu.Lock()
	ix.entries = removePath(ix.entries, path)
	ix.mu.Unlock()
	ix.persist()
}

// Entries 按 MRU 顺序返回副本 / Entries returns a copy in MRU order
func (ix *Index) Entries() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return append([]string(nil), ix.entries...)
}

func (ix *Index) load() {
	if ix.store == nil {
		return
	}
	blob, ok, err := ix.store.Get(storage.KeyHistory)
	if err != nil || !ok {
		return
	}
	entries, err := decodeEntries(blob)
	if err != nil {
		// 损坏的 blob：重置为空 / Corrupt blob: reset to empty
		ix.entries = nil
		return
	}
	if len(entries) > ix.limit {
		entries = entries[:ix.limit]
	}
	ix.entries = entries
}

func (ix *Index) persist() {
	if ix.store == nil {
		return
	}
	ix.mu.Lock()
	blob, err := json.Marshal(ix.entries)
	ix.mu.Unlock()
	if err != nil {
		return
	}
	_ = ix.store.Set(storage.KeyHistory, string(blob))
}

func removePath(entries []string, path string) []string {
	out := entries[:0]
	for _, e := range entries {
		if e != path {
			out = append(out, e)
		}
	}
	return out
}

func prepend(entries []string, path string) []string {
	return append([]string{path}, entries...)
}
