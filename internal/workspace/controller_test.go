package workspace

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// --- 测试替身 / Test doubles ---

type fakeFS struct {
	files      map[string]string
	failWrites bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: make(map[string]string)}
}

func (f *fakeFS) Exists(path string) (bool, error) {
	_, ok := f.files[path]
	return ok, nil
}

func (f *fakeFS) ReadText(path string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFileMissing, path)
	}
	return content, nil
}

func (f *fakeFS) WriteText(path, content string) error {
	if f.failWrites {
		return errors.New("disk full")
	}
	f.files[path] = content
	return nil
}

func (f *fakeFS) Delete(path string) error {
	delete(f.files, path)
	return nil
}

// scriptedConfirmer 按脚本逐次应答；记录收到的询问次数
// scriptedConfirmer answers from a script and counts prompts received
type scriptedConfirmer struct {
	answers []Choice
	asked   int
}

func (s *scriptedConfirmer) Confirm(message string, allowAll, allowCancel bool) Choice {
	s.asked++
	if len(s.answers) == 0 {
		return ChoiceNo
	}
	c := s.answers[0]
	s.answers = s.answers[1:]
	return c
}

type scriptedDialogs struct {
	savePath string
	cancel   bool
}

func (s *scriptedDialogs) OpenDialog(filters []string) (string, bool) {
	return "", false
}

func (s *scriptedDialogs) SaveDialog(filters []string) (string, bool) {
	if s.cancel {
		return "", false
	}
	return s.savePath, true
}

type countingPersister struct{ requests int }

func (p *countingPersister) RequestSave() { p.requests++ }

func newTestController(fs FS) (*Controller, *[]string) {
	var statuses []string
	ctl := NewController(Options{
		FS:     fs,
		Notify: func(msg string) { statuses = append(statuses, msg) },
	})
	return ctl, &statuses
}

// --- 创建与打开 / Create and open ---

func TestController_NewScratchActivates(t *testing.T) {
	ctl, _ := newTestController(newFakeFS())
	id := ctl.NewScratch(KindPlainText)

	if ctl.ActiveID() != id {
		t.Fatalf("active=%d, want %d", ctl.ActiveID(), id)
	}
	views := ctl.Views()
	if len(views) != 1 || views[0].Dirty {
		t.Fatalf("views=%+v, want one clean tab", views)
	}
	if views[0].Title != fmt.Sprintf("untitled-%d", id) {
		t.Fatalf("title=%q", views[0].Title)
	}
}

func TestController_OpenReadsContent(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.md"] = "# hi"
	ctl, _ := newTestController(fs)

	id, err := ctl.Open("/w/a.md")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, text, kind, ok := ctl.TakeState(id)
	if !ok || text != "# hi" {
		t.Fatalf("TakeState text=%q ok=%v", text, ok)
	}
	if kind != KindRichDocument {
		t.Fatalf("kind=%v, want rich for .md", kind)
	}
}

func TestController_OpenExistingPathActivates(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "x"
	ctl, _ := newTestController(fs)

	first, _ := ctl.Open("/w/a.txt")
	ctl.NewScratch(KindPlainText)

	again, err := ctl.Open("/w/a.txt")
	if err != nil {
		t.Fatalf("Open again: %v", err)
	}
	// 不新建：激活既有标签页 / No duplicate tab: the existing one is activated
	if again != first {
		t.Fatalf("second Open returned %d, want existing %d", again, first)
	}
	if ctl.Len() != 2 {
		t.Fatalf("Len=%d, want 2", ctl.Len())
	}
	if ctl.ActiveID() != first {
		t.Fatalf("active=%d, want %d", ctl.ActiveID(), first)
	}
}

func TestController_OpenMissingFileReportsStatus(t *testing.T) {
	ctl, statuses := newTestController(newFakeFS())

	id, err := ctl.Open("/w/gone.txt")
	if id != NoTab || !errors.Is(err, ErrFileUnreadable) {
		t.Fatalf("Open: id=%d err=%v", id, err)
	}
	if len(*statuses) == 0 {
		t.Fatal("failed open should emit a status message")
	}
	if ctl.Len() != 0 {
		t.Fatal("failed open must not create a tab")
	}
}

// --- 脏标记 / Dirty tracking ---

func TestController_NoteEditRecomputesDirty(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "base"
	ctl, _ := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")

	ctl.NoteEdit(id, "base+edit")
	if views := ctl.Views(); !views[0].Dirty {
		t.Fatal("edited tab should be dirty")
	}

	// 改回与保存内容一致 → 脏标记消除
	// Editing back to the saved content clears the flag
	ctl.NoteEdit(id, "base")
	if views := ctl.Views(); views[0].Dirty {
		t.Fatal("tab matching saved content should be clean")
	}
}

func TestController_ScratchDirtyOnlyWithContent(t *testing.T) {
	ctl, _ := newTestController(newFakeFS())
	id := ctl.NewScratch(KindPlainText)

	ctl.NoteEdit(id, "draft")
	if !ctl.Views()[0].Dirty {
		t.Fatal("scratch with content should be dirty")
	}
	ctl.NoteEdit(id, "")
	if ctl.Views()[0].Dirty {
		t.Fatal("emptied scratch should be clean again")
	}
}

// --- 保存 / Save ---

func TestController_SaveWritesAndCleans(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "base"
	ctl, _ := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")
	ctl.NoteEdit(id, "changed")

	if err := ctl.Save(id, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if fs.files["/w/a.txt"] != "changed" {
		t.Fatalf("disk=%q, want %q", fs.files["/w/a.txt"], "changed")
	}
	if ctl.Views()[0].Dirty {
		t.Fatal("saved tab should be clean")
	}
}

func TestController_SaveCleanTabIsIdempotent(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "base"
	ctl, statuses := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")
	before := len(*statuses)

	// 干净标签页：不写盘、不弹框、不报状态
	// Clean tab: no write, no dialog, no status
	if err := ctl.Save(id, &scriptedDialogs{cancel: true}); err != nil {
		t.Fatalf("Save clean: %v", err)
	}
	if len(*statuses) != before {
		t.Fatal("idempotent save should stay silent")
	}
}

func TestController_SaveScratchUsesDialog(t *testing.T) {
	fs := newFakeFS()
	ctl, _ := newTestController(fs)
	id := ctl.NewScratch(KindPlainText)
	ctl.NoteEdit(id, "draft")

	if err := ctl.Save(id, &scriptedDialogs{savePath: "/w/new.txt"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if fs.files["/w/new.txt"] != "draft" {
		t.Fatalf("disk=%q", fs.files["/w/new.txt"])
	}
	views := ctl.Views()
	if views[0].Path != "/w/new.txt" || views[0].Dirty {
		t.Fatalf("view=%+v, want adopted path and clean", views[0])
	}
}

func TestController_SaveDialogCancelled(t *testing.T) {
	ctl, _ := newTestController(newFakeFS())
	id := ctl.NewScratch(KindPlainText)
	ctl.NoteEdit(id, "draft")

	err := ctl.Save(id, &scriptedDialogs{cancel: true})
	if !errors.Is(err, ErrSaveDialogCancelled) {
		t.Fatalf("err=%v, want ErrSaveDialogCancelled", err)
	}
	// 取消不改动任何状态 / Cancellation mutates nothing
	if views := ctl.Views(); views[0].Path != "" || !views[0].Dirty {
		t.Fatalf("view=%+v, want untouched dirty scratch", views[0])
	}
}

func TestController_SaveWriteFailureKeepsDirty(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "base"
	ctl, statuses := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")
	ctl.NoteEdit(id, "changed")
	fs.failWrites = true

	err := ctl.Save(id, nil)
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("err=%v, want ErrWriteFailed", err)
	}
	if !ctl.Views()[0].Dirty {
		t.Fatal("failed write must leave the tab dirty")
	}
	if len(*statuses) == 0 {
		t.Fatal("failed write should emit a status message")
	}
}

func TestController_SaveNullProviderDegrades(t *testing.T) {
	ctl, statuses := newTestController(nil)
	id := ctl.NewScratch(KindPlainText)
	ctl.NoteEdit(id, "draft")

	err := ctl.Save(id, &scriptedDialogs{savePath: "/w/x.txt"})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err=%v, want ErrUnsupported", err)
	}
	if len(*statuses) == 0 {
		t.Fatal("unsupported provider should emit a status message")
	}
	if !ctl.Views()[0].Dirty {
		t.Fatal("tab must stay dirty when the provider is unavailable")
	}
}

// --- 关闭协议 / Close protocol ---

// 场景：空白未命名页直接关闭，不打扰用户
func TestController_CloseEmptyScratchNoPrompt(t *testing.T) {
	ctl, _ := newTestController(newFakeFS())
	id := ctl.NewScratch(KindPlainText)
	conf := &scriptedConfirmer{}

	if res := ctl.CloseTab(id, conf, nil); res != CloseClosed {
		t.Fatalf("res=%v, want closed", res)
	}
	if conf.asked != 0 {
		t.Fatal("empty scratch close must not prompt")
	}
	if ctl.Len() != 0 {
		t.Fatalf("Len=%d, want 0", ctl.Len())
	}
}

func TestController_CloseCleanTabNoPrompt(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "x"
	ctl, _ := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")
	conf := &scriptedConfirmer{}

	if res := ctl.CloseTab(id, conf, nil); res != CloseClosed {
		t.Fatalf("res=%v, want closed", res)
	}
	if conf.asked != 0 {
		t.Fatal("clean tab close must not prompt")
	}
}

// 场景：脏标签页，No 保留，Yes 保存后关闭
func TestController_CloseDirtyTabAnswerNoKeeps(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "base"
	ctl, _ := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")
	ctl.NoteEdit(id, "changed")

	res := ctl.CloseTab(id, &scriptedConfirmer{answers: []Choice{ChoiceNo}}, nil)
	if res != CloseKept {
		t.Fatalf("res=%v, want kept", res)
	}
	if ctl.Len() != 1 || !ctl.Views()[0].Dirty {
		t.Fatal("No must keep the dirty tab untouched")
	}
}

func TestController_CloseDirtyTabAnswerYesSaves(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "base"
	ctl, _ := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")
	ctl.NoteEdit(id, "changed")

	res := ctl.CloseTab(id, &scriptedConfirmer{answers: []Choice{ChoiceYes}}, nil)
	if res != CloseClosed {
		t.Fatalf("res=%v, want closed", res)
	}
	if fs.files["/w/a.txt"] != "changed" {
		t.Fatalf("disk=%q, want saved content", fs.files["/w/a.txt"])
	}
	if ctl.Len() != 0 {
		t.Fatal("tab should be gone after save-then-close")
	}
}

func TestController_CloseDirtyScratchSaveDialogCancelAborts(t *testing.T) {
	ctl, _ := newTestController(newFakeFS())
	id := ctl.NewScratch(KindPlainText)
	ctl.NoteEdit(id, "draft")

	res := ctl.CloseTab(id, &scriptedConfirmer{answers: []Choice{ChoiceYes}},
		&scriptedDialogs{cancel: true})
	if res != CloseCancelled {
		t.Fatalf("res=%v, want cancelled when the save dialog is abandoned", res)
	}
	if ctl.Len() != 1 {
		t.Fatal("cancelled close must keep the tab")
	}
}

// 场景：后备文件已被外部删除 → 跳过确认、剔除历史
func TestController_CloseMissingFileSkipsPrompt(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "base"
	ctl, statuses := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")
	ctl.NoteEdit(id, "changed")
	delete(fs.files, "/w/a.txt")

	conf := &scriptedConfirmer{}
	if res := ctl.CloseTab(id, conf, nil); res != CloseClosed {
		t.Fatalf("res=%v, want closed", res)
	}
	if conf.asked != 0 {
		t.Fatal("missing backing file must skip the confirmation")
	}
	if len(*statuses) == 0 {
		t.Fatal("missing file should emit a status message")
	}
}

// --- 批量关闭 / Batch close ---

func TestController_CloseTabsCancelAbortsRemainder(t *testing.T) {
	fs := newFakeFS()
	ctl, _ := newTestController(fs)
	ids := make([]TabID, 3)
	for i := range ids {
		ids[i] = ctl.NewScratch(KindPlainText)
		ctl.NoteEdit(ids[i], "draft")
	}

	conf := &scriptedConfirmer{answers: []Choice{ChoiceCancel}}
	out := ctl.CloseTabs(ids, conf, nil)
	if !out.Cancelled || out.Closed != 0 {
		t.Fatalf("out=%+v, want immediate cancel", out)
	}
	if ctl.Len() != 3 {
		t.Fatalf("Len=%d, want all 3 kept", ctl.Len())
	}
}

func TestController_CloseTabsNoSkipsAndContinues(t *testing.T) {
	ctl, _ := newTestController(newFakeFS())
	ids := make([]TabID, 2)
	for i := range ids {
		ids[i] = ctl.NewScratch(KindPlainText)
		ctl.NoteEdit(ids[i], "draft")
	}

	conf := &scriptedConfirmer{answers: []Choice{ChoiceNo, ChoiceNo}}
	out := ctl.CloseTabs(ids, conf, nil)
	if out.Cancelled || out.Closed != 0 {
		t.Fatalf("out=%+v, want nothing closed, nothing cancelled", out)
	}
	if conf.asked != 2 {
		t.Fatalf("asked=%d, want both tabs prompted", conf.asked)
	}
	if ctl.Len() != 2 {
		t.Fatal("No must keep each tab and continue the batch")
	}
}

func TestController_CloseTabsYesToAllDowngrades(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "a"
	fs.files["/w/b.txt"] = "b"
	fs.files["/w/c.txt"] = "c"
	ctl, _ := newTestController(fs)
	var ids []TabID
	for _, p := range []string{"/w/a.txt", "/w/b.txt", "/w/c.txt"} {
		id, _ := ctl.Open(p)
		ctl.NoteEdit(id, p+"+edit")
		ids = append(ids, id)
	}

	conf := &scriptedConfirmer{answers: []Choice{ChoiceAll}}
	out := ctl.CloseTabs(ids, conf, nil)
	if out.Cancelled || out.Closed != 3 {
		t.Fatalf("out=%+v, want all 3 closed", out)
	}
	// 只询问一次，其余静默保存 / One prompt; the rest save silently
	if conf.asked != 1 {
		t.Fatalf("asked=%d, want 1", conf.asked)
	}
	for _, p := range []string{"/w/a.txt", "/w/b.txt", "/w/c.txt"} {
		if fs.files[p] != p+"+edit" {
			t.Fatalf("%s not saved: %q", p, fs.files[p])
		}
	}
}

func TestController_CloseTabsWriteFailureKeepsAndContinues(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "a"
	fs.files["/w/b.txt"] = "b"
	ctl, _ := newTestController(fs)
	ida, _ := ctl.Open("/w/a.txt")
	ctl.NoteEdit(ida, "a2")
	idb, _ := ctl.Open("/w/b.txt")
	ctl.NoteEdit(idb, "b2")

	fs.failWrites = true
	conf := &scriptedConfirmer{answers: []Choice{ChoiceYes, ChoiceNo}}
	out := ctl.CloseTabs([]TabID{ida, idb}, conf, nil)

	// 写失败保留该页但批次继续 / A failed write keeps the tab; the batch goes on
	if out.Cancelled {
		t.Fatalf("out=%+v, write failure must not cancel the batch", out)
	}
	if out.Closed != 0 || ctl.Len() != 2 {
		t.Fatalf("out=%+v Len=%d, want both kept", out, ctl.Len())
	}
	if conf.asked != 2 {
		t.Fatalf("asked=%d, want second tab still prompted", conf.asked)
	}
}

// --- 状态交接与持久化触发 / State handoff and persist triggers ---

func TestController_StashTakeStateExclusive(t *testing.T) {
	ctl, _ := newTestController(newFakeFS())
	id := ctl.NewScratch(KindPlainText)

	type widget struct{ n int }
	ctl.StashState(id, &widget{n: 7})

	st, _, _, ok := ctl.TakeState(id)
	if !ok || st.(*widget).n != 7 {
		t.Fatalf("TakeState=%v ok=%v", st, ok)
	}
	// 再次借出为空：状态已被拿走 / A second take finds nothing: ownership moved
	st, _, _, _ = ctl.TakeState(id)
	if st != nil {
		t.Fatal("state must be exclusively owned; second take should be nil")
	}
}

func TestController_MutationsRequestPersist(t *testing.T) {
	ctl, _ := newTestController(newFakeFS())
	p := &countingPersister{}
	ctl.SetPersister(p)

	id := ctl.NewScratch(KindPlainText)
	ctl.NoteEdit(id, "x")
	ctl.Activate(id)
	ctl.MoveTab(id, 0)
	ctl.CloseTab(id, nil, nil) // 有内容的未命名页 + 无确认方 → 保留
	if p.requests < 3 {
		t.Fatalf("requests=%d, want every mutation to schedule a persist", p.requests)
	}
}

func TestController_CloseDirtyBackedTabProbeFailurePrompts(t *testing.T) {
	// 文件系统提供方缺失：探测失败不等于文件确认缺失，不得静默丢弃内容
	// No filesystem provider: a failed probe is not a confirmed not-exists and
	// must never discard content silently
	ctl, _ := newTestController(nil)
	id := ctl.AddRestored("/w/a.txt", "", KindPlainText, "draft", true)

	conf := &scriptedConfirmer{answers: []Choice{ChoiceNo}}
	if res := ctl.CloseTab(id, conf, nil); res != CloseKept {
		t.Fatalf("res=%v, want kept", res)
	}
	if conf.asked != 1 {
		t.Fatalf("asked=%d, want the confirmation gate", conf.asked)
	}
	if ctl.Len() != 1 {
		t.Fatal("tab must survive")
	}
}

// --- 会话捕获隔离 / Session capture isolation ---

func TestController_SnapshotReturnsCopies(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "v1"
	ctl, _ := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")
	ctl.StashState(id, &struct{ n int }{n: 1})

	tabs, active, _ := ctl.Snapshot()
	if active != id || len(tabs) != 1 {
		t.Fatalf("tabs=%d active=%d", len(tabs), active)
	}
	if tabs[0].State != nil {
		t.Fatal("engine state must not leave the event loop")
	}

	ctl.NoteEdit(id, "v2")
	if tabs[0].LiveText != "v1" || tabs[0].Unsaved {
		t.Fatalf("snapshot mutated by a later edit: %q dirty=%v", tabs[0].LiveText, tabs[0].Unsaved)
	}

	// 反向同理：改副本影响不到注册表 / The copy cannot reach back into the registry
	tabs[0].LiveText = "hijack"
	if _, text, _, _ := ctl.TakeState(id); text != "v2" {
		t.Fatalf("registry text=%q, want v2", text)
	}
}

func TestController_SnapshotConcurrentWithEdits(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "seed"
	ctl, _ := newTestController(fs)
	id, _ := ctl.Open("/w/a.txt")

	// 捕获与编辑并发执行，复刻防抖定时器/退出冲刷 goroutine 对上事件循环的时序
	// Capture races edits the way the debounce-timer and teardown-flush
	// goroutines run against the event loop
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			ctl.NoteEdit(id, fmt.Sprintf("edit-%d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			tabs, _, _ := ctl.Snapshot()
			for _, tab := range tabs {
				_ = tab.LiveText
				_ = tab.Unsaved
			}
		}
	}()
	wg.Wait()
}

func TestController_PathChangedOnDisk(t *testing.T) {
	fs := newFakeFS()
	fs.files["/w/a.txt"] = "x"
	ctl, _ := newTestController(fs)
	ctl.Open("/w/a.txt")

	if title, ok := ctl.PathChangedOnDisk("/w/a.txt"); !ok || title != "a.txt" {
		t.Fatalf("title=%q ok=%v", title, ok)
	}
	if _, ok := ctl.PathChangedOnDisk("/w/other.txt"); ok {
		t.Fatal("unknown path should miss")
	}
}
