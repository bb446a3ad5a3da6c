package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// RichEngine 富文档的只读渲染端。编辑仍走普通引擎的 widget；预览模式下
// 由本引擎把 markdown 源渲染为终端富文本。
// RichEngine is the read side of rich documents. Editing still goes through
// the plain engine's widget; in preview mode this engine renders the
// markdown source as styled terminal text.
type RichEngine struct {
	source string

	// 渲染缓存，按宽度失效 / Render cache, invalidated per width
	cached      string
	cachedWidth int
	dirty       bool
}

// NewRichEngine 创建富文档引擎 / NewRichEngine builds a rich document engine
func NewRichEngine() *RichEngine {
	return &RichEngine{dirty: true}
}

// Load 载入 markdown 源 / Load sets the markdown source
func (r *RichEngine) Load(source string) {
	if source == r.source {
		return
	}
	r.source = source
	r.dirty = true
}

// Serialize 返回 markdown 源 / Serialize returns the markdown source
func (r *RichEngine) Serialize() string {
	return r.source
}

// View 渲染预览。渲染失败时回退为原始文本。
// View renders the preview, falling back to the raw source on failure.
func (r *RichEngine) View(width int) string {
	if width <= 0 {
		width = 80
	}
	if !r.dirty && width == r.cachedWidth {
		return r.cached
	}

	r.cached = renderMarkdown(r.source, width)
	r.cachedWidth = width
	r.dirty = false
	return r.cached
}

func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	gr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := gr.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// MarkdownLink 组装 markdown 链接文本，供"插入链接"命令写入 widget
// MarkdownLink assembles markdown link text for the insert-link command
func MarkdownLink(text, url string) string {
	if text == "" {
		text = url
	}
	return fmt.Sprintf("[%s](%s)", text, url)
}

// InsertText 在当前光标处插入文本
// InsertText inserts text at the current cursor position
func (e *Engine) InsertText(s string) {
	if e.st == nil || s == "" {
		return
	}
	e.st.ta.InsertString(s)
}
