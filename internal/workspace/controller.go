package workspace

import (
	"errors"
	"fmt"
	"sync"

	"tabedit/internal/history"
	"tabedit/internal/i18n"
)

// FS 文件系统提供方，全部可失败
// FS is the filesystem provider collaborator; every call is fallible
type FS interface {
	Exists(path string) (bool, error)
	ReadText(path string) (string, error)
	WriteText(path, content string) error
	Delete(path string) error
}

// Dialogs 打开/保存路径对话框；ok=false 表示用户取消
// Dialogs is the open/save path dialog surface; ok=false means cancelled
type Dialogs interface {
	OpenDialog(filters []string) (path string, ok bool)
	SaveDialog(filters []string) (path string, ok bool)
}

// Choice 确认对话框的用户选择 / Choice is the user's confirmation answer
type Choice int

const (
	ChoiceYes Choice = iota
	ChoiceNo
	ChoiceAll
	ChoiceCancel
)

// Confirmer 确认对话框协作方；同一时刻只允许一个确认界面
// Confirmer is the confirmation dialog collaborator; at most one confirmation
// surface is pending at any time
type Confirmer interface {
	Confirm(message string, allowAll, allowCancel bool) Choice
}

// Persister 会话持久化请求入口（防抖）/ Persister requests a debounced session save
type Persister interface {
	RequestSave()
}

// FileWatcher 后备文件外部变更监视 / FileWatcher watches backing files for external changes
type FileWatcher interface {
	Add(path string) error
	Remove(path string) error
}

// TabView 渲染用的标签页只读快照 / TabView is a read-only tab snapshot for rendering
type TabView struct {
	ID     TabID
	Title  string
	Path   string
	Kind   DocumentKind
	Dirty  bool
	Active bool
}

// Options 控制器依赖 / Options carries the controller dependencies
type Options struct {
	FS          FS
	History     *history.Index
	Notify      func(msg string)
	Watch       FileWatcher
	ResolveKind func(path string) DocumentKind
}

// Controller 标签页生命周期控制器：创建、切换、关闭与确认协议的编排者。
// 注册表与活动指针只由控制器（和经由控制器的拖拽重排）修改。
// Controller orchestrates tab creation, switching and closing, including the
// unsaved-changes confirmation protocol. The registry and active pointer are
// mutated only through the controller (drag reorder included).
type Controller struct {
	mu      sync.RWMutex
	reg     *Registry
	fs      FS
	hist    *history.Index
	persist Persister
	notify  func(string)
	watch   FileWatcher
	resolve func(string) DocumentKind
	cursor  int
}

// NewController 创建控制器 / NewController builds a controller
func NewController(opts Options) *Controller {
	resolve := opts.ResolveKind
	if resolve == nil {
		resolve = func(path string) DocumentKind {
			return KindForPath(path, []string{".todo", ".chk"}, []string{".md", ".markdown"})
		}
	}
	return &Controller{
		reg:     NewRegistry(),
		fs:      opts.FS,
		hist:    opts.History,
		notify:  opts.Notify,
		watch:   opts.Watch,
		resolve: resolve,
	}
}

// SetPersister 注入会话持久化器（构造顺序上晚于控制器）
// SetPersister injects the session persister (built after the controller)
func (c *Controller) SetPersister(p Persister) {
	c.mu.Lock()
	c.persist = p
	c.mu.Unlock()
}

// --- 创建与恢复 / Create and restore ---

// NewScratch 新建无后备文件的空标签页并激活
// NewScratch creates and activates an empty tab with no backing file
func (c *Controller) NewScratch(kind DocumentKind) TabID {
	c.mu.Lock()
	id := c.reg.AllocateID()
	c.reg.Register(&Tab{ID: id, Kind: kind})
	c.mu.Unlock()

	c.requestSave()
	return id
}

// Open 打开文件：已打开则激活既有标签页，否则读取内容并新建。
// 读取失败转换为状态消息，丢失的路径同时从历史中剔除。
// Open opens a file: activates the existing tab when already open, otherwise
// reads the content and creates a new tab. Read failures become status
// messages; a missing path is also stripped from the file history.
func (c *Controller) Open(path string) (TabID, error) {
	c.mu.Lock()
	if t, ok := c.reg.FindByPath(path); ok {
		c.reg.SetActive(t.ID)
		id := t.ID
		c.mu.Unlock()
		c.requestSave()
		return id, nil
	}
	c.mu.Unlock()

	if c.fs == nil {
		c.status(i18n.T("status.fs_unsupported"))
		return NoTab, ErrUnsupported
	}
	content, err := c.fs.ReadText(path)
	if err != nil {
		if c.hist != nil {
			c.hist.Remove(path)
		}
		c.status(i18n.T("status.open_failed", path))
		return NoTab, fmt.Errorf("%w: %s", ErrFileUnreadable, path)
	}

	c.mu.Lock()
	id := c.reg.AllocateID()
	saved := content
	c.reg.Register(&Tab{
		ID:           id,
		Path:         path,
		Kind:         c.resolve(path),
		SavedContent: &saved,
		LiveText:     content,
	})
	c.mu.Unlock()

	if c.hist != nil {
		c.hist.Add(path)
	}
	c.watchAdd(path)
	c.requestSave()
	return id, nil
}

// AddRestored 以会话恢复内容新建标签页（id 重新分配，不沿用持久化 id）
// AddRestored creates a tab from restored session content (a fresh id is
// assigned; persisted ids are not reused)
func (c *Controller) AddRestored(path, title string, kind DocumentKind, content string, dirty bool) TabID {
	c.mu.Lock()
	id := c.reg.AllocateID()
	t := &Tab{
		ID:       id,
		Path:     path,
		Title:    title,
		Kind:     kind,
		LiveText: content,
		Unsaved:  dirty,
	}
	if path != "" && !dirty {
		saved := content
		t.SavedContent = &saved
	}
	c.reg.Register(t)
	c.mu.Unlock()

	if path != "" {
		c.watchAdd(path)
	}
	return id
}

// --- 切换与编辑 / Switch and edit ---

// Activate 切换活动标签页 / Activate moves the active pointer
func (c *Controller) Activate(id TabID) bool {
	c.mu.Lock()
	ok := c.reg.SetActive(id)
	c.mu.Unlock()
	if ok {
		c.requestSave()
	}
	return ok
}

// NoteEdit 编辑引擎变更通知：同步实时内容并重算脏标记
// NoteEdit is the editing-engine change notification: sync live content and
// recompute the dirty flag
func (c *Controller) NoteEdit(id TabID, text string) {
	c.mu.Lock()
	t, ok := c.reg.Find(id)
	if ok {
		t.LiveText = text
		t.recomputeDirty()
	}
	c.mu.Unlock()
	if ok {
		c.requestSave()
	}
}

// SetCursor 光标移动通知 / SetCursor is the cursor-moved notification
func (c *Controller) SetCursor(offset int) {
	c.mu.Lock()
	c.cursor = offset
	c.mu.Unlock()
}

// Cursor 当前光标偏移 / Cursor is the current cursor offset
func (c *Controller) Cursor() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursor
}

// StashState 切出时把编辑引擎状态交还给标签页（分离语义）
// StashState hands engine state back to the tab on switch-out (detach semantics)
func (c *Controller) StashState(id TabID, state any) {
	c.mu.Lock()
	if t, ok := c.reg.Find(id); ok {
		t.State = state
	}
	c.mu.Unlock()
}

// TakeState 切入时借出状态给编辑引擎；状态同一时刻只属于一个标签页
// TakeState lends the tab's state to the engine on switch-in; engine state is
// exclusively owned by one tab at a time
func (c *Controller) TakeState(id TabID) (state any, text string, kind DocumentKind, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, found := c.reg.Find(id)
	if !found {
		return nil, "", KindPlainText, false
	}
	state = t.State
	t.State = nil
	return state, t.LiveText, t.Kind, true
}

// MoveTab 拖拽重排提交 / MoveTab commits a drag reorder
func (c *Controller) MoveTab(id TabID, target int) {
	c.mu.Lock()
	c.reg.MoveTo(id, target)
	c.mu.Unlock()
	c.requestSave()
}

// --- 只读视图 / Read-only views ---

// Views 渲染用标签页快照 / Views returns tab snapshots for rendering
func (c *Controller) Views() []TabView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TabView, 0, c.reg.Len())
	for _, t := range c.reg.Tabs() {
		out = append(out, TabView{
			ID:     t.ID,
			Title:  t.DisplayTitle(),
			Path:   t.Path,
			Kind:   t.Kind,
			Dirty:  t.Unsaved,
			Active: t.ID == c.reg.ActiveID(),
		})
	}
	return out
}

// ActiveID 活动标签页 id / ActiveID is the active tab id
func (c *Controller) ActiveID() TabID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.ActiveID()
}

// IDs 按顺序返回全部标签页 id / IDs returns all tab ids in order
func (c *Controller) IDs() []TabID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.IDs()
}

// Len 标签页数量 / Len is the open tab count
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.Len()
}

// Snapshot 会话捕获用标签页副本。持久化跑在防抖定时器和退出冲刷的
// goroutine 上，必须在锁内拷贝记录，绝不能把活动指针外借给事件循环之外。
// Snapshot returns copied tab records for session capture. Persistence runs on
// the debounce-timer and teardown-flush goroutines, so the records are copied
// under the lock; live pointers never leave the event loop.
func (c *Controller) Snapshot() (tabs []*Tab, active TabID, cursor int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	live := c.reg.Tabs()
	tabs = make([]*Tab, 0, len(live))
	for _, t := range live {
		cp := *t
		// 引擎状态只属于事件循环 / Engine state belongs to the event loop only
		cp.State = nil
		tabs = append(tabs, &cp)
	}
	return tabs, c.reg.ActiveID(), c.cursor
}

// PathChangedOnDisk 外部变更通知：返回受影响标签页的显示名
// PathChangedOnDisk handles an external-change notification and returns the
// affected tab's display title
func (c *Controller) PathChangedOnDisk(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.reg.FindByPath(path); ok {
		return t.DisplayTitle(), true
	}
	return "", false
}

// --- 内部辅助 / Internal helpers ---

func (c *Controller) requestSave() {
	c.mu.RLock()
	p := c.persist
	c.mu.RUnlock()
	if p != nil {
		p.RequestSave()
	}
}

func (c *Controller) status(msg string) {
	if c.notify != nil {
		c.notify(msg)
	}
}

func (c *Controller) watchAdd(path string) {
	if c.watch != nil {
		_ = c.watch.Add(path)
	}
}

func (c *Controller) watchRemove(path string) {
	if c.watch != nil && path != "" {
		_ = c.watch.Remove(path)
	}
}

// fsProbe 探测路径是否存在；probed=false 表示提供方缺失或探测本身失败，
// 与"确认不存在"是两回事
// fsProbe reports whether a path exists; probed=false means the provider is
// missing or the probe itself failed, which is not the same as a confirmed
// not-exists
func (c *Controller) fsProbe(path string) (exists, probed bool) {
	if c.fs == nil {
		return false, false
	}
	exists, err := c.fs.Exists(path)
	if err != nil {
		return false, false
	}
	return exists, true
}

var errTabNotFound = errors.New("tab not found")
