package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tabedit/internal/editor"
	"tabedit/internal/history"
	"tabedit/internal/i18n"
	"tabedit/internal/reorder"
	"tabedit/internal/watch"
	"tabedit/internal/workspace"
)

// insertLinkMsg 链接详情流程的回传 / insertLinkMsg carries the link flow result
type insertLinkMsg struct{ markdown string }

// Options TUI 依赖 / Options carries the TUI dependencies
type Options struct {
	Controller    *workspace.Controller
	History       *history.Index
	Bridge        *Bridge
	Watcher       *watch.Watcher
	Theme         string
	DragThreshold int
	// InitialCursor 会话恢复的光标偏移，应用到首个活动标签页
	// InitialCursor is the restored cursor offset, applied to the first active tab
	InitialCursor int
	// InitialStatus 启动时的首条状态消息（恢复警告等）
	// InitialStatus is the first status message shown on startup (restore warnings)
	InitialStatus string
	// OnResize 终端尺寸变化回调（窗口几何持久化）
	// OnResize fires on terminal resize (window geometry persistence)
	OnResize func(width, height int)
}

// App Bubble Tea 主 Model。编辑 widget 只在 Update goroutine 里被触碰；
// 保存/关闭流程跑在 tea.Cmd goroutine 里，经 Bridge 回到事件循环弹框。
// App is the main Bubble Tea model. The editing widget is only touched on
// the Update goroutine; save/close flows run in tea.Cmd goroutines and come
// back through the Bridge for their overlays.
type App struct {
	// 布局 / Layout
	width  int
	height int

	// 引擎 / Engines
	ctl    *workspace.Controller
	hist   *history.Index
	bridge *Bridge
	engine *editor.Engine
	rich   *editor.RichEngine

	// 标签栏 / Tab bar
	gesture   *reorder.Gesture
	tabBounds []reorder.TabBounds

	// 编辑状态 / Editing state
	attachedID    workspace.TabID
	previewing    bool
	pendingCursor int
	cursorPending bool

	// 流程与浮层 / Flows and overlays
	flowActive bool
	confirm    *confirmOverlay
	prompt     *promptOverlay
	link       *linkOverlay
	quickOpen  *quickOpenOverlay

	// 状态栏 / Status line
	status string

	// 配置 / Config
	theme    Theme
	keys     KeyMap
	onResize func(int, int)
}

// NewApp 创建 TUI 应用
// NewApp creates a new TUI application
func NewApp(opts Options) *App {
	threshold := opts.DragThreshold
	if threshold < 0 {
		threshold = reorder.DefaultThreshold
	}
	status := opts.InitialStatus
	if status == "" {
		status = i18n.T("status.ready")
	}
	return &App{
		ctl:           opts.Controller,
		hist:          opts.History,
		bridge:        opts.Bridge,
		engine:        editor.NewEngine(),
		rich:          editor.NewRichEngine(),
		gesture:       reorder.NewGesture(threshold),
		pendingCursor: opts.InitialCursor,
		cursorPending: true,
		status:        status,
		theme:         ByName(opts.Theme),
		keys:          DefaultKeyMap(),
		onResize:      opts.OnResize,
	}
}

func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.engine.SetSize(a.width, a.editorHeight())
		if a.onResize != nil {
			a.onResize(msg.Width, msg.Height)
		}
		a.reconcileEditor()
		return a, nil

	case StatusMsg:
		a.status = string(msg)
		return a, nil

	case ConfirmRequestMsg:
		a.confirm = newConfirmOverlay(msg)
		return a, nil

	case PromptRequestMsg:
		a.prompt = newPromptOverlay(msg)
		return a, textarea.Blink

	case LinkRequestMsg:
		a.link = newLinkOverlay(msg)
		return a, textarea.Blink

	case insertLinkMsg:
		a.flowActive = false
		if msg.markdown != "" && !a.previewing {
			a.engine.InsertText(msg.markdown)
			a.syncEditor()
		}
		return a, nil

	case FlowDoneMsg:
		a.flowActive = false
		if msg.Quit {
			return a, tea.Quit
		}
		a.reconcileEditor()
		return a, nil

	case FileChangedMsg:
		title, open := a.ctl.PathChangedOnDisk(msg.Path)
		if !open {
			return a, nil
		}
		if msg.Removed {
			// 后备文件被删/改名：提示与外部写入区分开，过期历史条目一并剔除
			// Backing file deleted or renamed: distinct from an external write;
			// the stale history entry goes with it
			if a.hist != nil {
				a.hist.Remove(msg.Path)
			}
			a.status = i18n.T("status.file_missing", title)
			return a, nil
		}
		a.status = i18n.T("status.changed_disk", title)
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if !a.previewing && a.overlay() == nil {
		cmd := a.engine.Update(msg)
		return a, cmd
	}
	return a, nil
}

// --- 按键 / Keys ---

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// 浮层挂起时强制退出：先以安全默认值应答，流程 goroutine 不悬挂
	// Forced quit with an overlay pending: answer with the safe default first
	// so the flow goroutine never hangs
	if a.overlay() != nil && key.Matches(msg, a.keys.Quit) {
		a.abortOverlays()
		return a, tea.Quit
	}

	// 浮层优先吃掉一切按键 / Overlays consume every key first
	switch {
	case a.confirm != nil:
		if a.confirm.HandleKey(msg) {
			a.confirm = nil
		}
		return a, nil
	case a.prompt != nil:
		done, cmd := a.prompt.HandleKey(msg)
		if done {
			a.prompt = nil
		}
		return a, cmd
	case a.link != nil:
		done, cmd := a.link.HandleKey(msg)
		if done {
			a.link = nil
		}
		return a, cmd
	case a.quickOpen != nil:
		done, path, cmd := a.quickOpen.HandleKey(msg)
		if done {
			a.quickOpen = nil
			if path != "" {
				return a, a.runFlow(a.openPathCmd(path))
			}
		}
		return a, cmd
	}

	// 流程进行中只放行退出 / While a flow is in flight only quit passes
	if a.flowActive {
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.syncEditor()
		return a, a.runFlow(a.quitCmd())

	case key.Matches(msg, a.keys.NewTab):
		a.ctl.NewScratch(workspace.KindPlainText)
		a.reconcileEditor()
		return a, nil

	case key.Matches(msg, a.keys.OpenFile):
		a.syncEditor()
		return a, a.runFlow(a.openDialogCmd())

	case key.Matches(msg, a.keys.SaveTab):
		a.syncEditor()
		return a, a.runFlow(a.saveCmd(a.ctl.ActiveID()))

	case key.Matches(msg, a.keys.CloseTab):
		a.syncEditor()
		return a, a.runFlow(a.closeCmd(a.ctl.ActiveID()))

	case key.Matches(msg, a.keys.QuickOpen):
		if a.hist != nil {
			a.quickOpen = newQuickOpenOverlay(a.hist)
		}
		return a, nil

	case key.Matches(msg, a.keys.NextTab):
		a.activateNeighbor(1)
		return a, nil

	case key.Matches(msg, a.keys.PrevTab):
		a.activateNeighbor(-1)
		return a, nil

	case key.Matches(msg, a.keys.InsertLink):
		if !a.previewing {
			return a, a.runFlow(a.linkCmd())
		}
		return a, nil

	case key.Matches(msg, a.keys.TogglePreview):
		a.togglePreview()
		return a, nil
	}

	if a.previewing {
		return a, nil
	}
	cmd := a.engine.Update(msg)
	a.syncEditor()
	return a, cmd
}

// --- 鼠标 / Mouse ---

// handleMouse 标签栏交互：按下-拖动-释放手势；低于阈值的释放是普通切换
// handleMouse drives the tab-bar press-drag-release gesture; a release below
// the threshold is a plain activation
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if msg.Y != 0 {
			a.gesture.Cancel()
			return nil
		}
		if id, ok := reorder.HitTab(msg.X, a.tabBounds); ok {
			a.gesture.Down(id, msg.X)
		}
	case tea.MouseActionMotion:
		a.gesture.Move(msg.X)
	case tea.MouseActionRelease:
		res := a.gesture.Up(msg.X, a.tabBounds)
		switch res.Action {
		case reorder.ActionActivate:
			a.ctl.Activate(res.ID)
			a.reconcileEditor()
		case reorder.ActionMove:
			a.ctl.MoveTab(res.ID, res.TargetIndex)
		}
	}
	return nil
}

// --- 流程 / Flows ---

func (a *App) runFlow(cmd tea.Cmd) tea.Cmd {
	a.flowActive = true
	return cmd
}

func (a *App) saveCmd(id workspace.TabID) tea.Cmd {
	return func() tea.Msg {
		_ = a.ctl.Save(id, a.bridge)
		return FlowDoneMsg{}
	}
}

func (a *App) closeCmd(id workspace.TabID) tea.Cmd {
	return func() tea.Msg {
		a.ctl.CloseTab(id, a.bridge, a.bridge)
		return FlowDoneMsg{}
	}
}

// quitCmd 顺序走一遍关闭协议；任何取消都留在编辑器里
// quitCmd runs the close protocol over every tab; any cancellation stays in
// the editor
func (a *App) quitCmd() tea.Cmd {
	return func() tea.Msg {
		res := a.ctl.CloseTabs(a.ctl.IDs(), a.bridge, a.bridge)
		return FlowDoneMsg{Quit: !res.Cancelled && a.ctl.Len() == 0}
	}
}

func (a *App) openDialogCmd() tea.Cmd {
	return func() tea.Msg {
		path, ok := a.bridge.OpenDialog(nil)
		if ok {
			_, _ = a.ctl.Open(path)
		}
		return FlowDoneMsg{}
	}
}

func (a *App) openPathCmd(path string) tea.Cmd {
	return func() tea.Msg {
		_, _ = a.ctl.Open(path)
		return FlowDoneMsg{}
	}
}

func (a *App) linkCmd() tea.Cmd {
	return func() tea.Msg {
		text, url, ok := a.bridge.AskLinkDetails("", "")
		if !ok {
			return insertLinkMsg{}
		}
		return insertLinkMsg{markdown: editor.MarkdownLink(text, url)}
	}
}

// --- 编辑器交接 / Editor handoff ---

// syncEditor 把 widget 内容与光标镜像回控制器
// syncEditor mirrors the widget content and cursor back into the controller
func (a *App) syncEditor() {
	if a.attachedID == workspace.NoTab || !a.engine.Attached() {
		return
	}
	a.ctl.NoteEdit(a.attachedID, a.engine.CurrentText())
	a.ctl.SetCursor(a.engine.CursorOffset())
}

// reconcileEditor 活动标签页变化时交接 widget 状态：旧状态 stash 回原
// 标签页，新标签页的状态借出并绑定。
// reconcileEditor hands widget state over when the active tab changed: the
// old state is stashed on its tab, the new tab's state is taken and attached.
func (a *App) reconcileEditor() {
	activeID := a.ctl.ActiveID()
	if activeID == a.attachedID {
		return
	}

	if a.engine.Attached() {
		a.syncEditor()
		st := a.engine.Detach()
		// 标签页可能刚被关掉；状态随之丢弃 / The tab may just have closed; state drops with it
		a.ctl.StashState(a.attachedID, st)
	}
	a.attachedID = activeID
	a.previewing = false

	if activeID == workspace.NoTab {
		return
	}
	state, text, kind, ok := a.ctl.TakeState(activeID)
	if !ok {
		a.attachedID = workspace.NoTab
		return
	}
	if st, isState := state.(*editor.State); isState && st != nil {
		a.engine.Attach(st)
	} else {
		a.engine.Attach(editor.NewState(text))
	}
	a.engine.SetSize(a.width, a.editorHeight())

	if kind == workspace.KindRichDocument {
		a.rich.Load(text)
	}
	if a.cursorPending {
		a.engine.ApplyCursorOffset(a.pendingCursor)
		a.cursorPending = false
	}
}

func (a *App) togglePreview() {
	views := a.ctl.Views()
	for _, v := range views {
		if v.Active && v.Kind == workspace.KindRichDocument {
			if !a.previewing {
				a.rich.Load(a.engine.CurrentText())
			}
			a.previewing = !a.previewing
			return
		}
	}
}

func (a *App) activateNeighbor(step int) {
	ids := a.ctl.IDs()
	if len(ids) < 2 {
		return
	}
	active := a.ctl.ActiveID()
	for i, id := range ids {
		if id == active {
			next := (i + step + len(ids)) % len(ids)
			a.ctl.Activate(ids[next])
			a.reconcileEditor()
			return
		}
	}
}

// abortOverlays 收起所有浮层并兜底应答挂起的流程
// abortOverlays tears down every overlay, answering any pending flow with its
// fallback reply
func (a *App) abortOverlays() {
	if a.confirm != nil {
		a.confirm.Abort()
		a.confirm = nil
	}
	if a.prompt != nil {
		a.prompt.Abort()
		a.prompt = nil
	}
	if a.link != nil {
		a.link.Abort()
		a.link = nil
	}
	a.quickOpen = nil
}

func (a *App) overlay() interface{ View(Theme, int) string } {
	switch {
	case a.confirm != nil:
		return a.confirm
	case a.prompt != nil:
		return a.prompt
	case a.link != nil:
		return a.link
	case a.quickOpen != nil:
		return a.quickOpen
	}
	return nil
}

func (a *App) editorHeight() int {
	h := a.height - 2 // 标签栏 + 状态栏 / tab bar + status bar
	if h < 1 {
		h = 1
	}
	return h
}

// --- 渲染 / Rendering ---

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}

	var bar string
	bar, a.tabBounds = renderTabBar(a.ctl.Views(), a.theme, a.width)

	var body string
	switch {
	case a.ctl.Len() == 0:
		body = lipgloss.Place(a.width, a.editorHeight(), lipgloss.Center, lipgloss.Center,
			a.theme.MutedStyle.Render(i18n.T("keys.new")))
	case a.previewing:
		body = lipgloss.NewStyle().Width(a.width).Height(a.editorHeight()).
			Render(a.rich.View(a.width))
	default:
		body = a.engine.View()
	}

	if o := a.overlay(); o != nil {
		body = overlayCentered(o.View(a.theme, a.width), a.width, a.editorHeight())
	}

	hints := []string{
		i18n.T("keys.open"),
		i18n.T("keys.save"),
		i18n.T("keys.close"),
		i18n.T("keys.quick"),
		i18n.T("keys.quit"),
	}
	status := renderStatusBar(a.status, hints, a.theme, a.width)

	return lipgloss.JoinVertical(lipgloss.Left, bar, body, status)
}

// Run 启动 Bubble Tea TUI；返回即应退出
// Run starts the Bubble Tea TUI; returning means the editor should exit
func Run(opts Options) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if opts.Bridge != nil {
		opts.Bridge.SetProgram(p)
	}

	if opts.Watcher != nil {
		go func() {
			for ev := range opts.Watcher.Events() {
				p.Send(FileChangedMsg{Path: ev.Path, Removed: ev.Removed})
			}
		}()
	}

	_, err := p.Run()
	return err
}
