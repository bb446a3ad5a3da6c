package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tabedit/internal/i18n"
)

// promptOverlay 单行路径输入框（打开/另存为）
// promptOverlay is the single-line path input box (open / save-as)
type promptOverlay struct {
	titleKey string
	input    textinput.Model
	reply    chan PromptReply
}

func newPromptOverlay(req PromptRequestMsg) *promptOverlay {
	ti := textinput.New()
	ti.SetValue(req.Initial)
	ti.CharLimit = 512
	ti.Focus()
	return &promptOverlay{titleKey: req.Title, input: ti, reply: req.Reply}
}

func (o *promptOverlay) HandleKey(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(o.input.Value())
		o.reply <- PromptReply{Value: value, OK: value != ""}
		return true, nil
	case "esc", "ctrl+c":
		o.reply <- PromptReply{}
		return true, nil
	}
	o.input, cmd = o.input.Update(msg)
	return false, cmd
}

func (o *promptOverlay) Abort() {
	select {
	case o.reply <- PromptReply{}:
	default:
	}
}

func (o *promptOverlay) View(theme Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(i18n.T(o.titleKey)))
	b.WriteString("\n")
	b.WriteString(o.input.View())

	box := theme.OverlayStyle
	if width > 4 {
		box = box.MaxWidth(width - 2)
	}
	return box.Render(b.String())
}

// linkOverlay 链接详情框：两个输入字段，tab 切换
// linkOverlay is the link-details box: two fields, tab switches between them
type linkOverlay struct {
	text  textinput.Model
	url   textinput.Model
	onURL bool
	reply chan LinkReply
}

func newLinkOverlay(req LinkRequestMsg) *linkOverlay {
	text := textinput.New()
	text.SetValue(req.DefaultText)
	text.CharLimit = 256
	text.Focus()

	url := textinput.New()
	url.SetValue(req.DefaultURL)
	url.CharLimit = 512

	return &linkOverlay{text: text, url: url, reply: req.Reply}
}

func (o *linkOverlay) HandleKey(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch msg.String() {
	case "enter":
		o.reply <- LinkReply{
			Text: strings.TrimSpace(o.text.Value()),
			URL:  strings.TrimSpace(o.url.Value()),
			OK:   strings.TrimSpace(o.url.Value()) != "",
		}
		return true, nil
	case "esc", "ctrl+c":
		o.reply <- LinkReply{}
		return true, nil
	case "tab", "shift+tab", "up", "down":
		o.onURL = !o.onURL
		if o.onURL {
			o.text.Blur()
			return false, o.url.Focus()
		}
		o.url.Blur()
		return false, o.text.Focus()
	}

	if o.onURL {
		o.url, cmd = o.url.Update(msg)
	} else {
		o.text, cmd = o.text.Update(msg)
	}
	return false, cmd
}

func (o *linkOverlay) Abort() {
	select {
	case o.reply <- LinkReply{}:
	default:
	}
}

func (o *linkOverlay) View(theme Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(i18n.T("prompt.link_text")))
	b.WriteString("\n")
	b.WriteString(o.text.View())
	b.WriteString("\n")
	b.WriteString(theme.TitleStyle.Render(i18n.T("prompt.link_url")))
	b.WriteString("\n")
	b.WriteString(o.url.View())

	box := theme.OverlayStyle
	if width > 4 {
		box = box.MaxWidth(width - 2)
	}
	return box.Render(b.String())
}
