package workspace

import (
	"errors"

	"tabedit/internal/i18n"
)

// CloseResult 单个标签页关闭的上报结果，从不以错误形式抛出
// CloseResult is the reported outcome of closing one tab; never surfaced as an error
type CloseResult int

const (
	// CloseClosed 标签页已移除 / the tab was removed
	CloseClosed CloseResult = iota
	// CloseKept 用户选择保留（No 或写失败）/ the user kept the tab (No, or a failed write)
	CloseKept
	// CloseCancelled 用户取消，批量时中止剩余 / the user cancelled; aborts the rest of a batch
	CloseCancelled
)

// BatchResult 批量关闭上报 / BatchResult reports a close-multiple batch
type BatchResult struct {
	Closed    int
	Cancelled bool
}

// CloseTab 关闭单个标签页，执行确认协议（保存式：Yes/No/Cancel）
// CloseTab closes a single tab through the confirmation protocol
// (save-capable: Yes/No/Cancel)
func (c *Controller) CloseTab(id TabID, confirmer Confirmer, dialogs Dialogs) CloseResult {
	force := false
	return c.closeOne(id, confirmer, dialogs, false, &force)
}

// CloseTabs 顺序关闭一批标签页：同一时刻只有一个确认界面；Cancel 中止
// 剩余批次；YesToAll 将后续确认降级为静默保存后关闭。
// CloseTabs closes a batch sequentially: only one confirmation surface at a
// time; Cancel aborts the remainder; YesToAll downgrades subsequent prompts
// to silent save-then-close.
func (c *Controller) CloseTabs(ids []TabID, confirmer Confirmer, dialogs Dialogs) BatchResult {
	var out BatchResult
	force := false
	for _, id := range ids {
		switch c.closeOne(id, confirmer, dialogs, true, &force) {
		case CloseClosed:
			out.Closed++
		case CloseCancelled:
			out.Cancelled = true
			return out
		}
	}
	return out
}

// closeOne 单标签页关闭算法：
//  1. 干净 → 直接关闭
//  2. 无后备文件且内容为空 → 视为干净（不为一次性空白页打扰用户）
//  3. 后备文件确认缺失 → 跳过确认（没有可丢弃的内容），并从历史剔除；
//     探测失败（提供方缺失/出错）不算缺失，照常走确认协议
//  4. 确认协议；Yes 先保存，保存对话框被取消则关闭也中止
//  5. 从注册表移除；回退激活由注册表决定
func (c *Controller) closeOne(id TabID, confirmer Confirmer, dialogs Dialogs, batch bool, force *bool) CloseResult {
	c.mu.Lock()
	t, ok := c.reg.Find(id)
	if !ok {
		c.mu.Unlock()
		return CloseKept
	}
	clean := !t.Unsaved
	emptyScratch := t.Path == "" && t.LiveText == ""
	path := t.Path
	title := t.DisplayTitle()
	c.mu.Unlock()

	if clean || emptyScratch {
		c.remove(id, path)
		return CloseClosed
	}

	if path != "" {
		// 只有探测成功且确认不存在才静默关闭；探测失败时内容仍可能有价值，
		// 落回确认协议
		// Close silently only on a confirmed not-exists. A failed probe means
		// the content may still matter, so fall through to the confirmation.
		if exists, probed := c.fsProbe(path); probed && !exists {
			// 文件已丢失：没有可丢弃的内容，同时剔除过期历史条目
			// File gone: nothing meaningful to discard; also strip the stale history entry
			if c.hist != nil {
				c.hist.Remove(path)
			}
			c.status(i18n.T("status.file_missing", path))
			c.remove(id, path)
			return CloseClosed
		}
	}

	if !*force {
		choice := confirmChoice(confirmer, i18n.T("confirm.unsaved", title), batch)
		switch choice {
		case ChoiceNo:
			return CloseKept
		case ChoiceCancel:
			return CloseCancelled
		case ChoiceAll:
			*force = true
		}
	}

	if err := c.Save(id, dialogs); err != nil {
		if errors.Is(err, ErrSaveDialogCancelled) {
			// 保存对话框被用户放弃，关闭随之中止
			// The save dialog was abandoned; the close aborts with it
			return CloseCancelled
		}
		return CloseKept
	}

	c.remove(id, path)
	return CloseClosed
}

// remove 第 5 步：移出注册表并触发持久化；活动页回退在 Unregister 内完成
// remove is step 5: unregister and request a persist; the active fallback is
// chosen inside Unregister
func (c *Controller) remove(id TabID, path string) {
	c.mu.Lock()
	c.reg.Unregister(id)
	c.mu.Unlock()
	c.watchRemove(path)
	c.requestSave()
}

// confirmChoice 协作方缺失时按 No 处理，避免静默丢数据
// confirmChoice treats a missing collaborator as No to avoid silent data loss
func confirmChoice(confirmer Confirmer, message string, batch bool) Choice {
	if confirmer == nil {
		return ChoiceNo
	}
	return confirmer.Confirm(message, batch, true)
}
