package watch

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Event 后备文件的外部变更 / Event is an external change to a backing file
type Event struct {
	Path    string
	Removed bool
}

// Watcher 监视打开标签页的后备文件，把外部写入/删除映射为变更事件。
// 同一路径允许重复 Add（引用计数），标签页关闭时 Remove。
// Watcher observes the backing files of open tabs and maps external writes
// and deletions to change events. Add is reference-counted per path so the
// same file open in transient flows is safe; Remove drops a reference.
type Watcher struct {
	mu     sync.Mutex
	fw     *fsnotify.Watcher
	refs   map[string]int
	events chan Event
	done   chan struct{}
}

// New 创建监视器 / New builds a watcher
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fw:     fw,
		refs:   make(map[string]int),
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Add 开始监视路径 / Add starts watching a path
func (w *Watcher) Add(path string) error {
	if path == "" {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.refs[path]++
	if w.refs[path] > 1 {
		return nil
	}
	if err := w.fw.Add(path); err != nil {
		w.refs[path]--
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}

// Remove 停止监视路径 / Remove stops watching a path
func (w *Watcher) Remove(path string) error {
	if path == "" {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.refs[path] == 0 {
		return nil
	}
	w.refs[path]--
	if w.refs[path] > 0 {
		return nil
	}
	delete(w.refs, path)
	if err := w.fw.Remove(path); err != nil {
		return fmt.Errorf("unwatch %s: %w", path, err)
	}
	return nil
}

// Events 变更事件通道 / Events is the change event channel
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close 停止监视 / Close stops the watcher
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				w.emit(Event{Path: ev.Name})
			}
			if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
				w.emit(Event{Path: ev.Name, Removed: true})
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// 监视错误不致命，丢弃 / Watch errors are non-fatal; dropped
		}
	}
}

func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	default:
		// 消费方滞后时丢弃最旧语义不重要的事件 / Drop when the consumer lags
	}
}
