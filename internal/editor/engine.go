package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// State 单个标签页的编辑状态（widget 实例）。标签页失活时 Detach 收回，
// 存入 Tab.State；重新激活时 Attach 放回，光标与滚动位置随之保留。
// State is the per-tab editing state, wrapping one widget instance. On
// deactivation the state is detached and stashed on the tab; on
// reactivation it is attached again, carrying cursor and scroll position.
type State struct {
	ta textarea.Model
}

// NewState 以初始内容创建编辑状态
// NewState builds an editing state seeded with the given content
func NewState(initial string) *State {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.SetValue(initial)
	return &State{ta: ta}
}

// Engine 承载当前激活标签页的编辑 widget。同一时刻最多绑定一个 State；
// 所有输入消息经 Update 流入 widget，文本读取经 CurrentText 流出。
// Engine hosts the editing widget of the currently active tab. At most one
// State is attached at a time; input messages flow in through Update and
// text flows out through CurrentText.
type Engine struct {
	st     *State
	width  int
	height int
}

// NewEngine 创建空引擎 / NewEngine builds an empty engine
func NewEngine() *Engine {
	return &Engine{}
}

// Attach 绑定状态并聚焦 / Attach binds a state and focuses the widget
func (e *Engine) Attach(st *State) {
	e.st = st
	if st == nil {
		return
	}
	if e.width > 0 {
		st.ta.SetWidth(e.width)
	}
	if e.height > 0 {
		st.ta.SetHeight(e.height)
	}
	st.ta.Focus()
}

// Detach 解绑并返回状态，供标签页收藏
// Detach unbinds and returns the state so the tab can stash it
func (e *Engine) Detach() *State {
	st := e.st
	if st != nil {
		st.ta.Blur()
	}
	e.st = nil
	return st
}

// Attached 是否有绑定的状态 / Attached reports whether a state is bound
func (e *Engine) Attached() bool {
	return e.st != nil
}

// SetSize 调整 widget 尺寸 / SetSize resizes the widget
func (e *Engine) SetSize(width, height int) {
	e.width = width
	e.height = height
	if e.st != nil {
		e.st.ta.SetWidth(width)
		e.st.ta.SetHeight(height)
	}
}

// Focus 聚焦 widget / Focus focuses the widget
func (e *Engine) Focus() tea.Cmd {
	if e.st == nil {
		return nil
	}
	return e.st.ta.Focus()
}

// Blur 失焦 widget / Blur removes focus from the widget
func (e *Engine) Blur() {
	if e.st != nil {
		e.st.ta.Blur()
	}
}

// Update 把输入消息交给 widget / Update forwards an input message
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	if e.st == nil {
		return nil
	}
	var cmd tea.Cmd
	e.st.ta, cmd = e.st.ta.Update(msg)
	return cmd
}

// View 渲染 widget / View renders the widget
func (e *Engine) View() string {
	if e.st == nil {
		return ""
	}
	return e.st.ta.View()
}

// CurrentText 当前全文 / CurrentText returns the full text
func (e *Engine) CurrentText() string {
	if e.st == nil {
		return ""
	}
	return e.st.ta.Value()
}

// CursorOffset 把 widget 的行/列光标换算为全文 rune 偏移
// CursorOffset converts the widget's line/column cursor into a rune offset
// into the whole text
func (e *Engine) CursorOffset() int {
	if e.st == nil {
		return 0
	}
	line := e.st.ta.Line()
	info := e.st.ta.LineInfo()
	col := info.StartColumn + info.ColumnOffset

	offset := 0
	lines := strings.Split(e.st.ta.Value(), "\n")
	for i := 0; i < line && i < len(lines); i++ {
		offset += len([]rune(lines[i])) + 1
	}
	if line < len(lines) {
		if max := len([]rune(lines[line])); col > max {
			col = max
		}
	}
	return offset + col
}

// ApplyCursorOffset 把全文 rune 偏移换算回行/列并移动光标。偏移超出
// 文末时落在末尾。
// ApplyCursorOffset converts a rune offset back into line/column and moves
// the cursor there. Offsets past the end land at the end.
func (e *Engine) ApplyCursorOffset(offset int) {
	if e.st == nil {
		return
	}
	if offset < 0 {
		offset = 0
	}

	lines := strings.Split(e.st.ta.Value(), "\n")
	line, col := 0, 0
	remaining := offset
	for i, l := range lines {
		n := len([]rune(l))
		if remaining <= n {
			line, col = i, remaining
			break
		}
		remaining -= n + 1
		if i == len(lines)-1 {
			line, col = i, n
		}
	}

	e.st.ta.SetCursor(0)
	for e.st.ta.Line() > 0 {
		e.st.ta.CursorUp()
	}
	e.st.ta.SetCursor(0)
	for i := 0; i < line; i++ {
		e.st.ta.CursorDown()
	}
	e.st.ta.SetCursor(col)
}
