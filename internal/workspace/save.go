package workspace

import (
	"errors"
	"fmt"

	"tabedit/internal/i18n"
)

// Save 保存标签页。干净且已有后备文件时不产生任何写入（幂等）。
// 无后备文件时先走保存对话框；用户取消则中止，不改动任何状态。
// 锁不跨越对话框与磁盘 I/O 等待。
// Save persists a tab. A clean tab with a backing file performs no write
// (idempotent). A tab without a backing path goes through the save dialog
// first; user cancellation aborts with no state mutated. The lock is never
// held across dialog or disk I/O waits.
func (c *Controller) Save(id TabID, dialogs Dialogs) error {
	c.mu.Lock()
	t, ok := c.reg.Find(id)
	if !ok {
		c.mu.Unlock()
		return errTabNotFound
	}
	if !t.Unsaved && t.Path != "" {
		c.mu.Unlock()
		return nil
	}
	path := t.Path
	text := t.LiveText
	kind := t.Kind
	c.mu.Unlock()

	if path == "" {
		if dialogs == nil {
			c.status(i18n.T("status.save_cancelled"))
			return ErrSaveDialogCancelled
		}
		p, confirmed := dialogs.SaveDialog(kindFilters(kind))
		if !confirmed {
			c.status(i18n.T("status.save_cancelled"))
			return ErrSaveDialogCancelled
		}
		path = p
	}

	if c.fs == nil {
		c.status(i18n.T("status.fs_unsupported"))
		return ErrUnsupported
	}
	if err := c.fs.WriteText(path, text); err != nil {
		if errors.Is(err, ErrUnsupported) {
			c.status(i18n.T("status.fs_unsupported"))
			return ErrUnsupported
		}
		// 写失败：标签页保持脏状态，操作可恢复
		// Write failure: the tab stays dirty, the operation is recoverable
		c.status(i18n.T("status.write_failed", path, err))
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	c.mu.Lock()
	if t, ok := c.reg.Find(id); ok {
		t.Path = path
		saved := text
		t.SavedContent = &saved
		// 保存期间可能有新的编辑通知，以快照为基线重算
		// Edits may have arrived during the write; recompute against the new baseline
		t.recomputeDirty()
	}
	c.mu.Unlock()

	if c.hist != nil {
		c.hist.Add(path)
	}
	c.watchAdd(path)
	c.requestSave()
	c.status(i18n.T("status.saved", path))
	return nil
}

// kindFilters 保存/打开对话框的扩展名过滤 / dialog extension filters per kind
func kindFilters(kind DocumentKind) []string {
	switch kind {
	case KindChecklist:
		return []string{"*.todo", "*.chk"}
	case KindRichDocument:
		return []string{"*.md", "*.markdown"}
	default:
		return []string{"*"}
	}
}
