package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TabID 进程内单调分配的标签页标识，从不复用
// TabID is a per-process monotonically assigned tab identifier, never reused
type TabID int64

// NoTab 表示"无标签页" / NoTab means "no tab"
const NoTab TabID = 0

// DocumentKind 文档类型，创建时确定，生命周期内不变
// DocumentKind is the document type, fixed at creation for the tab's lifetime
type DocumentKind int

const (
	KindPlainText DocumentKind = iota
	KindChecklist
	KindRichDocument
)

func (k DocumentKind) String() string {
	switch k {
	case KindChecklist:
		return "checklist"
	case KindRichDocument:
		return "rich"
	default:
		return "text"
	}
}

// ParseKind 解析持久化的类型名；未知值回落到纯文本
// ParseKind parses a persisted kind name; unknown values fall back to plain text
func ParseKind(s string) DocumentKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checklist":
		return KindChecklist
	case "rich":
		return KindRichDocument
	default:
		return KindPlainText
	}
}

// KindForPath 根据扩展名推导文档类型
// KindForPath derives the document kind from the file extension
func KindForPath(path string, checklistExts, richExts []string) DocumentKind {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range checklistExts {
		if ext == strings.ToLower(strings.TrimSpace(e)) {
			return KindChecklist
		}
	}
	for _, e := range richExts {
		if ext == strings.ToLower(strings.TrimSpace(e)) {
			return KindRichDocument
		}
	}
	return KindPlainText
}

// Tab 工作区中的一个打开文档
// Tab is one open document unit within the workspace
type Tab struct {
	ID    TabID
	Path  string // 空表示无后备文件的 untitled / empty means untitled with no backing file
	Title string // 仅在 Path 为空时用于显示 / display fallback used only when Path is empty
	Kind  DocumentKind

	// Unsaved 脏标记：实时内容与 SavedContent 不一致
	// Unsaved is the dirty flag: live content differs from SavedContent
	Unsaved bool

	// SavedContent 最近一次落盘（或显式保存）的内容快照；nil 表示从未建立
	// SavedContent is the last on-disk (or explicitly saved) snapshot; nil if never established
	SavedContent *string

	// LiveText 编辑引擎变更通知同步来的当前内容镜像
	// LiveText mirrors the current content, fed by editing-engine change notifications
	LiveText string

	// State 编辑引擎独占持有的不透明状态；核心只保存和交还，从不检查
	// State is opaque editing-engine state; the core only stores and hands it back
	State any
}

// DisplayTitle 标签栏显示名：文件名优先，其次 Title，最后兜底
// DisplayTitle is the tab-bar label: base filename first, then Title, then a fallback
func (t *Tab) DisplayTitle() string {
	if strings.TrimSpace(t.Path) != "" {
		return filepath.Base(t.Path)
	}
	if strings.TrimSpace(t.Title) != "" {
		return t.Title
	}
	return fmt.Sprintf("untitled-%d", t.ID)
}

// recomputeDirty 按当前实时内容重算脏标记
// recomputeDirty recomputes the dirty flag against the current live content
func (t *Tab) recomputeDirty() {
	if t.SavedContent == nil {
		t.Unsaved = t.LiveText != ""
		return
	}
	t.Unsaved = t.LiveText != *t.SavedContent
}
