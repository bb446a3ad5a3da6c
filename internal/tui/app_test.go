package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tabedit/internal/history"
	"tabedit/internal/i18n"
	"tabedit/internal/workspace"
)

func newTestApp(ctl *workspace.Controller, hist *history.Index) *App {
	i18n.Init("en")
	return NewApp(Options{Controller: ctl, History: hist})
}

func TestApp_QuitWithPendingConfirmAnswersFallback(t *testing.T) {
	ctl := workspace.NewController(workspace.Options{})
	app := newTestApp(ctl, nil)

	reply := make(chan workspace.Choice, 1)
	app.Update(ConfirmRequestMsg{Message: "unsaved", AllowCancel: true, Reply: reply})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Fatal("quit key should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quit key must terminate the program")
	}
	// 挂起的流程必须拿到兜底应答，否则其 goroutine 永远阻塞
	// The pending flow must get the fallback answer or its goroutine blocks forever
	select {
	case c := <-reply:
		if c != workspace.ChoiceCancel {
			t.Fatalf("choice=%v, want the cancel fallback", c)
		}
	default:
		t.Fatal("pending confirm got no fallback reply")
	}
	if app.overlay() != nil {
		t.Fatal("overlay should be torn down")
	}
}

func TestApp_QuitWithPendingPromptAnswersFallback(t *testing.T) {
	ctl := workspace.NewController(workspace.Options{})
	app := newTestApp(ctl, nil)

	reply := make(chan PromptReply, 1)
	app.Update(PromptRequestMsg{Title: "prompt.open_path", Reply: reply})

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	select {
	case r := <-reply:
		if r.OK {
			t.Fatalf("reply=%+v, want cancelled", r)
		}
	default:
		t.Fatal("pending prompt got no fallback reply")
	}
}

func TestApp_FileRemovedStripsHistoryAndReportsMissing(t *testing.T) {
	hist := history.New(nil, 0)
	hist.Add("/w/gone.txt")
	ctl := workspace.NewController(workspace.Options{History: hist})
	ctl.AddRestored("/w/gone.txt", "", workspace.KindPlainText, "x", true)

	app := newTestApp(ctl, hist)
	app.Update(FileChangedMsg{Path: "/w/gone.txt", Removed: true})

	if !strings.Contains(app.status, "gone.txt") || !strings.Contains(app.status, "no longer exists") {
		t.Fatalf("status=%q, want the missing-file notice", app.status)
	}
	if len(hist.Entries()) != 0 {
		t.Fatalf("history=%v, want the stale entry stripped", hist.Entries())
	}

	// 普通外部写入仍是"磁盘上被修改"提示 / A plain external write keeps its own notice
	app.Update(FileChangedMsg{Path: "/w/gone.txt"})
	if !strings.Contains(app.status, "changed on disk") {
		t.Fatalf("status=%q, want the external-write notice", app.status)
	}
}

func TestApp_FileChangedUnknownPathIgnored(t *testing.T) {
	hist := history.New(nil, 0)
	hist.Add("/w/other.txt")
	ctl := workspace.NewController(workspace.Options{History: hist})

	app := newTestApp(ctl, hist)
	before := app.status
	app.Update(FileChangedMsg{Path: "/w/other.txt", Removed: true})

	if app.status != before {
		t.Fatalf("status=%q, closed paths must not surface notices", app.status)
	}
	if len(hist.Entries()) != 1 {
		t.Fatal("history of a closed tab must stay intact")
	}
}
