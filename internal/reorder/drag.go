package reorder

import "tabedit/internal/workspace"

// DefaultThreshold 区分点击与拖拽的位移阈值（单元格）
// DefaultThreshold separates a click from a drag (in cells)
const DefaultThreshold = 2

// TabBounds 标签栏上一个标签页的水平范围
// TabBounds is one tab's horizontal extent on the tab bar
type TabBounds struct {
	ID    workspace.TabID
	X     int
	Width int
}

func (b TabBounds) midpoint() int {
	return b.X + b.Width/2
}

// HitTab 命中测试：返回指针下的标签页 / HitTab returns the tab under the pointer
func HitTab(x int, bounds []TabBounds) (workspace.TabID, bool) {
	for _, b := range bounds {
		if x >= b.X && x < b.X+b.Width {
			return b.ID, true
		}
	}
	return workspace.NoTab, false
}

// InsertionIndex 插入下标：第一个中点位于指针 x 处或其后的标签页下标，
// 都在指针左侧则取列表末尾。
// InsertionIndex is the index of the first tab whose midpoint lies at or
// after the pointer's x-coordinate, or the end of the list if none qualify.
func InsertionIndex(x int, bounds []TabBounds) int {
	for i, b := range bounds {
		if b.midpoint() >= x {
			return i
		}
	}
	return len(bounds)
}

// Action 手势提交结果类型 / Action is the committed gesture type
type Action int

const (
	// ActionNone 无进行中的手势 / no gesture in flight
	ActionNone Action = iota
	// ActionActivate 位移未过阈值，按普通激活处理 / below-threshold release: plain activation
	ActionActivate
	// ActionMove 提交重排 / commit the reorder
	ActionMove
)

// Result 手势提交 / Result is the committed gesture
type Result struct {
	Action      Action
	ID          workspace.TabID
	TargetIndex int
}

// Gesture 指针拖拽状态机：按下捕获源标签页与起点，移动跟踪指针，
// 释放时换算插入下标。下标左移校正由 Registry.MoveTo 完成。
// Gesture is the pointer-drag state machine: press captures the source tab
// and origin, move tracks the pointer, release converts to an insertion
// index. The left-shift index correction happens inside Registry.MoveTo.
type Gesture struct {
	sourceID  workspace.TabID
	startX    int
	lastX     int
	active    bool
	threshold int
}

// NewGesture 创建手势状态机 / NewGesture builds a gesture state machine
func NewGesture(threshold int) *Gesture {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Gesture{threshold: threshold}
}

// Down 指针按下 / Down handles pointer-down over a tab
func (g *Gesture) Down(id workspace.TabID, x int) {
	g.sourceID = id
	g.startX = x
	g.lastX = x
	g.active = true
}

// Move 指针移动 / Move tracks pointer motion
func (g *Gesture) Move(x int) {
	if g.active {
		g.lastX = x
	}
}

// Active 是否有进行中的手势 / Active reports a gesture in flight
func (g *Gesture) Active() bool { return g.active }

// Dragging 是否已越过拖拽阈值 / Dragging reports threshold crossed
func (g *Gesture) Dragging() bool {
	return g.active && abs(g.lastX-g.startX) >= g.threshold
}

// Up 指针释放：越过阈值提交重排，否则按普通激活处理
// Up handles release: past the threshold commits a reorder, otherwise the
// gesture is a plain activation
func (g *Gesture) Up(x int, bounds []TabBounds) Result {
	if !g.active {
		return Result{Action: ActionNone}
	}
	id := g.sourceID
	moved := abs(x-g.startX) >= g.threshold
	g.active = false
	g.sourceID = workspace.NoTab

	if !moved {
		return Result{Action: ActionActivate, ID: id}
	}
	return Result{
		Action:      ActionMove,
		ID:          id,
		TargetIndex: InsertionIndex(x, bounds),
	}
}

// Cancel 放弃手势（如焦点丢失）/ Cancel abandons the gesture (e.g. focus loss)
func (g *Gesture) Cancel() {
	g.active = false
	g.sourceID = workspace.NoTab
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
