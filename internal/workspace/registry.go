package workspace

// Registry 标签页有序集合与活动指针，注册表是唯一的真值数据结构。
// 只做内存状态变更；渲染和通知由调用方负责。
// Registry is the ordered tab collection plus the single active pointer, the
// ground-truth data structure. In-memory mutation only; rendering and
// notification are the caller's responsibility.
type Registry struct {
	order    []TabID
	tabs     map[TabID]*Tab
	activeID TabID
	nextID   TabID
}

// NewRegistry 创建空注册表 / NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tabs: make(map[TabID]*Tab)}
}

// AllocateID 分配下一个单调递增 id / AllocateID hands out the next monotonic id
func (r *Registry) AllocateID() TabID {
	r.nextID++
	return r.nextID
}

// Register 追加标签页（id 已存在则忽略）并将其设为活动
// Register appends the tab (ignored if the id is present) and makes it active
func (r *Registry) Register(t *Tab) {
	if t == nil || t.ID == NoTab {
		return
	}
	if _, ok := r.tabs[t.ID]; ok {
		return
	}
	r.tabs[t.ID] = t
	r.order = append(r.order, t.ID)
	r.activeID = t.ID
}

// Unregister 移除标签页；若移除的是活动页，回退到被移除位置的前一个，
// 其次是新的首个标签页，注册表为空时回退到"无标签页"。
// Unregister removes the tab; if it was active, fall back to the tab
// immediately preceding the removed position, then the new first tab, then
// "no tab" when the registry is empty.
func (r *Registry) Unregister(id TabID) {
	idx := r.IndexOf(id)
	if idx < 0 {
		return
	}
	delete(r.tabs, id)
	r.order = append(r.order[:idx], r.order[idx+1:]...)

	if r.activeID != id {
		return
	}
	switch {
	case idx-1 >= 0 && idx-1 < len(r.order):
		r.activeID = r.order[idx-1]
	case len(r.order) > 0:
		r.activeID = r.order[0]
	default:
		r.activeID = NoTab
	}
}

// Find 查找标签页 / Find returns the tab, or ok=false when absent
func (r *Registry) Find(id TabID) (*Tab, bool) {
	t, ok := r.tabs[id]
	return t, ok
}

// MoveTo 将标签页移动到目标下标。当目标位于源之后时，先移除源元素造成的
// 左移需要把目标下标减一再插入。
// MoveTo relocates a tab to the target index. When the target lies after the
// source, the left shift caused by removing the source element means the
// target index must be decremented before reinsertion.
func (r *Registry) MoveTo(id TabID, target int) {
	idx := r.IndexOf(id)
	if idx < 0 {
		return
	}
	if target > idx {
		target--
	}
	r.order = append(r.order[:idx], r.order[idx+1:]...)
	if target < 0 {
		target = 0
	}
	if target > len(r.order) {
		target = len(r.order)
	}
	r.order = append(r.order[:target], append([]TabID{id}, r.order[target:]...)...)
}

// IndexOf 返回标签页下标，不存在返回 -1
// IndexOf returns the tab's position, or -1 when absent
func (r *Registry) IndexOf(id TabID) int {
	for i, tid := range r.order {
		if tid == id {
			return i
		}
	}
	return -1
}

// Tabs 按顺序返回标签页切片副本 / Tabs returns tabs in order (copied slice)
func (r *Registry) Tabs() []*Tab {
	out := make([]*Tab, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tabs[id])
	}
	return out
}

// IDs 按顺序返回 id 副本 / IDs returns tab ids in order (copied slice)
func (r *Registry) IDs() []TabID {
	return append([]TabID(nil), r.order...)
}

// Len 标签页数量 / Len is the tab count
func (r *Registry) Len() int { return len(r.order) }

// ActiveID 当前活动标签页 id；无活动页返回 NoTab
// ActiveID is the active tab id, NoTab when none
func (r *Registry) ActiveID() TabID { return r.activeID }

// Active 返回活动标签页 / Active returns the active tab
func (r *Registry) Active() (*Tab, bool) {
	if r.activeID == NoTab {
		return nil, false
	}
	return r.Find(r.activeID)
}

// SetActive 切换活动指针；id 必须存在于注册表
// SetActive moves the active pointer; the id must exist in the registry
func (r *Registry) SetActive(id TabID) bool {
	if _, ok := r.tabs[id]; !ok {
		return false
	}
	r.activeID = id
	return true
}

// FindByPath 按后备文件路径查找 / FindByPath looks a tab up by backing path
func (r *Registry) FindByPath(path string) (*Tab, bool) {
	if path == "" {
		return nil, false
	}
	for _, id := range r.order {
		if r.tabs[id].Path == path {
			return r.tabs[id], true
		}
	}
	return nil, false
}
