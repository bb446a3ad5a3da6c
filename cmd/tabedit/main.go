package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tabedit/internal/config"
	"tabedit/internal/history"
	"tabedit/internal/i18n"
	"tabedit/internal/platform"
	"tabedit/internal/session"
	"tabedit/internal/storage"
	"tabedit/internal/tui"
	"tabedit/internal/watch"
	"tabedit/internal/workspace"
)

func main() {
	var (
		configPath string
		cwd        string
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.StringVar(&cwd, "cwd", "", "Working directory override")
	flag.Parse()

	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			fmt.Fprintf(os.Stderr, "chdir %s failed: %v\n", cwd, err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	i18n.Init(cfg.UI.Locale)

	if err := os.MkdirAll(cfg.Storage.BaseDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "init state dir failed: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSQLiteStore(filepath.Join(cfg.Storage.BaseDir, "state.db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T("error.storage_open", err))
		os.Exit(1)
	}
	defer store.Close()

	hist := history.New(store, cfg.Editor.HistoryLimit)
	fs := platform.NewOS()
	bridge := tui.NewBridge()

	// 监视器失败时降级运行，外部变更提示缺席而已
	// A watcher failure degrades gracefully; only external-change notices go missing
	var watcher *watch.Watcher
	if w, err := watch.New(); err == nil {
		watcher = w
		defer watcher.Close()
	}

	ctl := workspace.NewController(workspace.Options{
		FS:      fs,
		History: hist,
		Notify:  bridge.Notify,
		Watch:   watcherOrNil(watcher),
		ResolveKind: func(path string) workspace.DocumentKind {
			return workspace.KindForPath(path, cfg.Files.ChecklistExts, cfg.Files.RichExts)
		},
	})

	saver := session.NewSaver(store,
		time.Duration(cfg.Editor.DebounceMS)*time.Millisecond,
		func() ([]byte, error) {
			tabs, active, cursor := ctl.Snapshot()
			return session.Capture(tabs, active, cursor).Marshal()
		})
	ctl.SetPersister(saver)

	// 会话恢复：持久化 id 只用于映射活动标签页，新 id 重新分配
	// Session restore: persisted ids only map the active tab; fresh ids are assigned
	restored, oldActive, cursor := session.Restore(store, fs)
	var (
		newActive     workspace.TabID
		initialStatus string
	)
	for _, rt := range restored {
		id := ctl.AddRestored(rt.Path, rt.Title, rt.Kind, rt.Content, rt.Dirty)
		if rt.ID == oldActive {
			newActive = id
		}
		if rt.Warn != "" && initialStatus == "" {
			initialStatus = i18n.T("status.restore_stale", rt.Warn)
		}
	}
	if newActive != workspace.NoTab {
		ctl.Activate(newActive)
	}

	// 命令行文件参数追加打开，并成为活动标签页
	// Files named on the command line open after the restore and take focus
	for _, arg := range flag.Args() {
		abs, err := filepath.Abs(arg)
		if err != nil {
			continue
		}
		if _, err := ctl.Open(abs); err != nil {
			fmt.Fprintln(os.Stderr, i18n.T("status.open_failed", abs))
		}
	}
	if ctl.Len() == 0 {
		ctl.NewScratch(workspace.KindPlainText)
	}

	// SIGTERM 下先冲刷会话再退出 / Flush the session before dying on SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigCh
		_ = saver.FlushNow()
		store.Close()
		os.Exit(0)
	}()

	err = tui.Run(tui.Options{
		Controller:    ctl,
		History:       hist,
		Bridge:        bridge,
		Watcher:       watcher,
		Theme:         cfg.UI.Theme,
		DragThreshold: cfg.Editor.DragThreshold,
		InitialCursor: cursor,
		InitialStatus: initialStatus,
		OnResize: func(w, h int) {
			_ = session.SaveGeometry(store, session.Geometry{Width: w, Height: h})
		},
	})

	if flushErr := saver.FlushNow(); flushErr != nil {
		fmt.Fprintf(os.Stderr, "flush session failed: %v\n", flushErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tui failed: %v\n", err)
		os.Exit(1)
	}
}

// watcherOrNil 把具体监视器转成接口，保留 nil 语义
// watcherOrNil converts the concrete watcher to the interface, keeping nil nil
func watcherOrNil(w *watch.Watcher) workspace.FileWatcher {
	if w == nil {
		return nil
	}
	return w
}
