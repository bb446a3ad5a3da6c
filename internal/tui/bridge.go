package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"tabedit/internal/workspace"
)

// --- Tea Messages ---

// StatusMsg 状态栏瞬时消息 / StatusMsg is a transient status-line message
type StatusMsg string

// ConfirmRequestMsg 请求弹出确认框；Reply 必须恰好收到一次应答
// ConfirmRequestMsg asks for a confirmation overlay; Reply must receive
// exactly one answer
type ConfirmRequestMsg struct {
	Message     string
	AllowAll    bool
	AllowCancel bool
	Reply       chan workspace.Choice
}

// PromptReply 路径输入结果 / PromptReply is a path prompt result
type PromptReply struct {
	Value string
	OK    bool
}

// PromptRequestMsg 请求弹出路径输入框
// PromptRequestMsg asks for a path input overlay
type PromptRequestMsg struct {
	Title   string
	Initial string
	Reply   chan PromptReply
}

// LinkReply 链接详情结果 / LinkReply is a link-details result
type LinkReply struct {
	Text string
	URL  string
	OK   bool
}

// LinkRequestMsg 请求弹出链接详情框
// LinkRequestMsg asks for a link-details overlay
type LinkRequestMsg struct {
	DefaultText string
	DefaultURL  string
	Reply       chan LinkReply
}

// FlowDoneMsg 后台流程（保存/关闭/打开）结束
// FlowDoneMsg signals that a background flow (save/close/open) finished
type FlowDoneMsg struct {
	Quit bool
}

// FileChangedMsg 监视器上报的外部变更 / FileChangedMsg is a watcher notification
type FileChangedMsg struct {
	Path    string
	Removed bool
}

// Bridge 把控制器的同步协作方接口（确认框、路径对话框、链接详情）接到
// Bubble Tea 事件循环上。流程在 tea.Cmd goroutine 里调用这些方法；Bridge
// 向程序发送请求消息并阻塞等待 Update 循环写回应答。应答通道带缓冲，
// Update 循环写入时从不阻塞。
// Bridge adapts the controller's synchronous collaborator interfaces
// (confirmations, path dialogs, link details) onto the Bubble Tea event
// loop. Flows call these methods from tea.Cmd goroutines; the Bridge sends
// a request message to the program and blocks until the Update loop writes
// the answer back. Reply channels are buffered, so the Update loop never
// blocks on delivery.
type Bridge struct {
	mu sync.RWMutex
	p  *tea.Program
}

// NewBridge 创建未接线的桥 / NewBridge builds an unwired bridge
func NewBridge() *Bridge {
	return &Bridge{}
}

// SetProgram 接线到程序；在 p.Run 之前调用
// SetProgram wires the bridge to the program; call before p.Run
func (b *Bridge) SetProgram(p *tea.Program) {
	b.mu.Lock()
	b.p = p
	b.mu.Unlock()
}

func (b *Bridge) send(msg tea.Msg) bool {
	b.mu.RLock()
	p := b.p
	b.mu.RUnlock()
	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}

// Notify 状态栏消息入口；可从任意 goroutine 调用
// Notify feeds the status line; safe from any goroutine
func (b *Bridge) Notify(msg string) {
	b.send(StatusMsg(msg))
}

// Confirm 实现 workspace.Confirmer / Confirm implements workspace.Confirmer
func (b *Bridge) Confirm(message string, allowAll, allowCancel bool) workspace.Choice {
	reply := make(chan workspace.Choice, 1)
	if !b.send(ConfirmRequestMsg{Message: message, AllowAll: allowAll, AllowCancel: allowCancel, Reply: reply}) {
		return workspace.ChoiceNo
	}
	return <-reply
}

// OpenDialog 实现 workspace.Dialogs / OpenDialog implements workspace.Dialogs
func (b *Bridge) OpenDialog(filters []string) (string, bool) {
	return b.prompt("prompt.open_path", "")
}

// SaveDialog 实现 workspace.Dialogs / SaveDialog implements workspace.Dialogs
func (b *Bridge) SaveDialog(filters []string) (string, bool) {
	return b.prompt("prompt.save_path", "")
}

func (b *Bridge) prompt(titleKey, initial string) (string, bool) {
	reply := make(chan PromptReply, 1)
	if !b.send(PromptRequestMsg{Title: titleKey, Initial: initial, Reply: reply}) {
		return "", false
	}
	r := <-reply
	return r.Value, r.OK
}

// AskLinkDetails 链接详情弹框 / AskLinkDetails shows the link-details overlay
func (b *Bridge) AskLinkDetails(defaultText, defaultURL string) (text, url string, ok bool) {
	reply := make(chan LinkReply, 1)
	if !b.send(LinkRequestMsg{DefaultText: defaultText, DefaultURL: defaultURL, Reply: reply}) {
		return "", "", false
	}
	r := <-reply
	return r.Text, r.URL, r.OK
}
