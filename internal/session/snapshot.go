package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"tabedit/internal/storage"
	"tabedit/internal/workspace"
)

// TabSnapshot 单个标签页的持久化记录。Content 仅在没有可靠后备文件或
// 与磁盘不一致时（untitled 或脏）内嵌，否则为 null，恢复时重读后备文件。
// TabSnapshot is one persisted tab record. Content is embedded only when the
// tab has no reliable backing file or differs from disk (untitled or dirty);
// otherwise it is null and reconstructed by re-reading the backing file.
type TabSnapshot struct {
	ID      int64   `json:"id"`
	Path    string  `json:"path,omitempty"`
	Title   string  `json:"title,omitempty"`
	Unsaved bool    `json:"unsaved"`
	Kind    string  `json:"kind"`
	Content *string `json:"content"`
}

// Snapshot 整个工作区的会话记录 / Snapshot is the full workspace session record
type Snapshot struct {
	Tabs        []TabSnapshot `json:"tabs"`
	ActiveTabID int64         `json:"active_tab_id"`
	CursorPos   int           `json:"cursor_pos"`
}

// Capture 从标签页记录构建会话快照 / Capture builds a snapshot from tab records
func Capture(tabs []*workspace.Tab, active workspace.TabID, cursor int) Snapshot {
	snap := Snapshot{
		Tabs:        make([]TabSnapshot, 0, len(tabs)),
		ActiveTabID: int64(active),
		CursorPos:   cursor,
	}
	for _, t := range tabs {
		ts := TabSnapshot{
			ID:      int64(t.ID),
			Path:    t.Path,
			Title:   t.Title,
			Unsaved: t.Unsaved,
			Kind:    t.Kind.String(),
		}
		if t.Path == "" || t.Unsaved {
			content := t.LiveText
			ts.Content = &content
		}
		snap.Tabs = append(snap.Tabs, ts)
	}
	return snap
}

// Marshal 序列化会话 blob / Marshal encodes the session blob
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

// ErrBlobCorrupt 会话 blob 不可解析；恢复端退化为空工作区
// ErrBlobCorrupt marks an unparseable session blob; restore degrades to an
// empty workspace
var ErrBlobCorrupt = errors.New("session blob corrupt")

// Decode 解析会话 blob / Decode parses a session blob
func Decode(blob string) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrBlobCorrupt, err)
	}
	return snap, nil
}

// RestoredTab 恢复后的标签页：内容已按优先级链解析完毕
// RestoredTab is a restored tab with its content already resolved through the
// priority chain
type RestoredTab struct {
	ID      int64
	Path    string
	Title   string
	Kind    workspace.DocumentKind
	Content string
	Dirty   bool
	// Warn 非空表示后备文件读取失败，需要一条瞬态提示
	// Warn is non-empty when the backing file could not be read; surfaces a
	// transient warning
	Warn string
}

// Restore 读取存储的会话。blob 缺失或不可解析时返回空工作区。
// 每个条目的内容解析链：内嵌 content → 重读后备文件 → 读取失败回落到
// 内嵌内容（可能为空）并标脏 → 空串。活动 id 失效时回退到首个标签页，
// 光标偏移收敛到活动文档长度以内。
// Restore reads the stored session. A missing or unparseable blob yields an
// empty workspace. Per-entry content resolution: embedded content → re-read
// the backing file → on failure fall back to the embedded content (possibly
// empty) and mark dirty → empty string. A stale active id falls back to the
// first tab, and the cursor offset is clamped to the active document length.
func Restore(store storage.Store, fsys workspace.FS) (tabs []RestoredTab, activeID int64, cursor int) {
	if store == nil {
		return nil, 0, 0
	}
	blob, ok, err := store.Get(storage.KeySession)
	if err != nil || !ok {
		return nil, 0, 0
	}
	snap, err := Decode(blob)
	if err != nil {
		// 损坏的会话 blob：重置为空工作区 / Corrupt session blob: empty workspace
		return nil, 0, 0
	}

	tabs = make([]RestoredTab, 0, len(snap.Tabs))
	for _, ts := range snap.Tabs {
		rt := RestoredTab{
			ID:    ts.ID,
			Path:  ts.Path,
			Title: ts.Title,
			Kind:  workspace.ParseKind(ts.Kind),
			Dirty: ts.Unsaved,
		}
		switch {
		case ts.Content != nil:
			rt.Content = *ts.Content
		case ts.Path != "":
			content, err := readBacking(fsys, ts.Path)
			if err != nil {
				rt.Dirty = true
				rt.Warn = ts.Path
			} else {
				rt.Content = content
			}
		}
		tabs = append(tabs, rt)
	}

	activeID = snap.ActiveTabID
	if findTab(tabs, activeID) < 0 {
		activeID = 0
		if len(tabs) > 0 {
			activeID = tabs[0].ID
		}
	}

	cursor = snap.CursorPos
	if idx := findTab(tabs, activeID); idx >= 0 {
		if max := len([]rune(tabs[idx].Content)); cursor > max {
			cursor = max
		}
	} else {
		cursor = 0
	}
	if cursor < 0 {
		cursor = 0
	}
	return tabs, activeID, cursor
}

func readBacking(fsys workspace.FS, path string) (string, error) {
	if fsys == nil {
		return "", workspace.ErrUnsupported
	}
	return fsys.ReadText(path)
}

func findTab(tabs []RestoredTab, id int64) int {
	for i, t := range tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}
