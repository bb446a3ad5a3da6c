package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tabedit/internal/history"
	"tabedit/internal/i18n"
)

const quickOpenMaxRows = 10

// quickOpenOverlay Ctrl+P 快速打开：按键即时重排历史匹配，Enter 打开选中项
// quickOpenOverlay is the Ctrl+P quick-open box: every keystroke re-ranks the
// history matches; Enter opens the selection
type quickOpenOverlay struct {
	input    textinput.Model
	hist     *history.Index
	matches  []string
	selected int
}

func newQuickOpenOverlay(hist *history.Index) *quickOpenOverlay {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Focus()
	o := &quickOpenOverlay{input: ti, hist: hist}
	o.refresh()
	return o
}

func (o *quickOpenOverlay) refresh() {
	o.matches = o.hist.Search(o.input.Value())
	if o.selected >= len(o.matches) {
		o.selected = 0
	}
}

// HandleKey 处理按键；done=true 时 path 非空表示确认打开
// HandleKey processes a key; when done, a non-empty path means "open it"
func (o *quickOpenOverlay) HandleKey(msg tea.KeyMsg) (done bool, path string, cmd tea.Cmd) {
	switch msg.String() {
	case "enter":
		if len(o.matches) == 0 {
			return true, "", nil
		}
		return true, o.matches[o.selected], nil
	case "esc", "ctrl+c", "ctrl+p":
		return true, "", nil
	case "up", "ctrl+k":
		if o.selected > 0 {
			o.selected--
		}
		return false, "", nil
	case "down", "ctrl+j":
		if o.selected < len(o.matches)-1 {
			o.selected++
		}
		return false, "", nil
	}

	o.input, cmd = o.input.Update(msg)
	o.refresh()
	return false, "", cmd
}

func (o *quickOpenOverlay) View(theme Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(i18n.T("prompt.quick_open")))
	b.WriteString("\n")
	b.WriteString(o.input.View())
	b.WriteString("\n")

	if len(o.matches) == 0 {
		b.WriteString(theme.MutedStyle.Render(i18n.T("quickopen.empty")))
	}
	for i, path := range o.matches {
		if i >= quickOpenMaxRows {
			break
		}
		line := path
		if i == o.selected {
			line = theme.SelectedStyle.Render(line)
		} else {
			line = theme.MutedStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(o.matches)-1 && i < quickOpenMaxRows-1 {
			b.WriteString("\n")
		}
	}

	box := theme.OverlayStyle
	if width > 4 {
		box = box.MaxWidth(width - 2)
	}
	return box.Render(b.String())
}
