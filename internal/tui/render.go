package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tabedit/internal/reorder"
	"tabedit/internal/workspace"
)

// renderTabBar 渲染标签栏并返回每个标签页的横向区间，供鼠标命中与拖拽
// 落点判定使用。区间按渲染后的显示宽度计算。
// renderTabBar renders the tab bar and returns each tab's horizontal extent
// for mouse hit-testing and drag drop-point resolution. Extents use the
// rendered display width.
func renderTabBar(views []workspace.TabView, theme Theme, width int) (string, []reorder.TabBounds) {
	parts := make([]string, 0, len(views))
	bounds := make([]reorder.TabBounds, 0, len(views))

	x := 0
	for _, v := range views {
		label := v.Title
		if v.Dirty {
			label += " " + theme.DirtyMarkStyle.Render("*")
		}

		style := theme.InactiveTabStyle
		if v.Active {
			style = theme.ActiveTabStyle
		}
		cell := style.Render(label)

		w := lipgloss.Width(cell)
		bounds = append(bounds, reorder.TabBounds{ID: v.ID, X: x, Width: w})
		x += w
		parts = append(parts, cell)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if gap := width - lipgloss.Width(bar); gap > 0 {
		bar += strings.Repeat(" ", gap)
	}
	return bar, bounds
}

// renderStatusBar 左侧瞬时消息，右侧按键提示
// renderStatusBar shows the transient message left and key hints right
func renderStatusBar(status string, hints []string, theme Theme, width int) string {
	left := " " + status
	right := strings.Join(hints, " · ") + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// 空间不足时丢弃提示 / Hints are dropped when space runs out
		right = ""
		gap = width - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}

	bar := left + strings.Repeat(" ", gap) + right
	return theme.StatusBarStyle.Width(width).Render(bar)
}

// overlayCentered 把浮层放置在画面中上方
// overlayCentered positions an overlay in the upper middle of the screen
func overlayCentered(overlay string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
}
