package session

import (
	"fmt"
	"sync"
	"time"

	"tabedit/internal/storage"
)

// DefaultDebounce 会话写入防抖间隔 / DefaultDebounce is the save debounce delay
const DefaultDebounce = 1000 * time.Millisecond

// Saver 防抖的会话持久化器。RequestSave 重置单一计时器，把连续编辑
// 合并为一次写入；FlushNow 取消计时器并同步写盘，用于进程收尾信号。
// Saver is the debounced session persister. RequestSave re-arms a single
// timer so edit bursts coalesce into one write; FlushNow cancels the timer
// and writes synchronously, required on teardown signals where no further
// event loop turns are guaranteed.
type Saver struct {
	mu      sync.Mutex
	store   storage.Store
	delay   time.Duration
	timer   *time.Timer
	capture func() ([]byte, error)
}

// NewSaver 创建持久化器；capture 在写入时刻惰性捕获最新快照
// NewSaver builds a persister; capture lazily grabs the latest snapshot at
// write time
func NewSaver(store storage.Store, delay time.Duration, capture func() ([]byte, error)) *Saver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Saver{store: store, delay: delay, capture: capture}
}

// RequestSave 重置防抖计时器 / RequestSave resets the debounce timer
func (s *Saver) RequestSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		_ = s.writeNow()
	})
}

// FlushNow 取消挂起的计时器并同步写入
// FlushNow cancels any pending timer and writes synchronously
func (s *Saver) FlushNow() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.writeNow()
}

func (s *Saver) writeNow() error {
	if s.store == nil || s.capture == nil {
		return nil
	}
	blob, err := s.capture()
	if err != nil {
		return fmt.Errorf("capture session: %w", err)
	}
	if err := s.store.Set(storage.KeySession, string(blob)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
