package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tabedit/internal/i18n"
	"tabedit/internal/workspace"
)

// confirmOverlay 未保存修改确认框。同一时刻最多一个（批量关闭按顺序
// 逐个弹出）。
// confirmOverlay is the unsaved-changes confirmation box. At most one is
// pending at a time (batch closes prompt sequentially).
type confirmOverlay struct {
	message     string
	allowAll    bool
	allowCancel bool
	reply       chan workspace.Choice
}

func newConfirmOverlay(req ConfirmRequestMsg) *confirmOverlay {
	return &confirmOverlay{
		message:     req.Message,
		allowAll:    req.AllowAll,
		allowCancel: req.AllowCancel,
		reply:       req.Reply,
	}
}

// HandleKey 处理按键；done=true 表示应答已写回
// HandleKey processes a key; done=true means the answer was delivered
func (o *confirmOverlay) HandleKey(msg tea.KeyMsg) (done bool) {
	switch msg.String() {
	case "y", "Y", "enter":
		o.reply <- workspace.ChoiceYes
		return true
	case "n", "N":
		o.reply <- workspace.ChoiceNo
		return true
	case "a", "A":
		if o.allowAll {
			o.reply <- workspace.ChoiceAll
			return true
		}
	case "esc", "ctrl+c":
		if o.allowCancel {
			o.reply <- workspace.ChoiceCancel
		} else {
			o.reply <- workspace.ChoiceNo
		}
		return true
	}
	return false
}

// Abort 界面被强制收起时兜底应答，避免流程 goroutine 悬挂
// Abort delivers a fallback answer when the overlay is torn down, so the
// flow goroutine never hangs
func (o *confirmOverlay) Abort() {
	select {
	case o.reply <- workspace.ChoiceCancel:
	default:
	}
}

func (o *confirmOverlay) View(theme Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(o.message))
	b.WriteString("\n\n")

	options := []string{
		"[y] " + i18n.T("confirm.yes"),
		"[n] " + i18n.T("confirm.no"),
	}
	if o.allowAll {
		options = append(options, "[a] "+i18n.T("confirm.yes_to_all"))
	}
	if o.allowCancel {
		options = append(options, "[esc] "+i18n.T("confirm.cancel"))
	}
	b.WriteString(theme.MutedStyle.Render(strings.Join(options, "  ")))

	box := theme.OverlayStyle
	if width > 4 {
		box = box.MaxWidth(width - 2)
	}
	return box.Render(b.String())
}
