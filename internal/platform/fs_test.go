package platform

import (
	"errors"
	"testing"

	"tabedit/internal/workspace"
)

func TestAferoFS_ReadWriteRoundTrip(t *testing.T) {
	fs := NewMem()

	if err := fs.WriteText("/w/deep/a.txt", "hello"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	ok, err := fs.Exists("/w/deep/a.txt")
	if err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}
	content, err := fs.ReadText("/w/deep/a.txt")
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if content != "hello" {
		t.Fatalf("content=%q, want %q", content, "hello")
	}
}

func TestAferoFS_MissingFile(t *testing.T) {
	fs := NewMem()

	ok, err := fs.Exists("/nope.txt")
	if err != nil || ok {
		t.Fatalf("Exists missing: ok=%v err=%v", ok, err)
	}
	if _, err := fs.ReadText("/nope.txt"); !errors.Is(err, workspace.ErrFileMissing) {
		t.Fatalf("ReadText err=%v, want ErrFileMissing", err)
	}
}

func TestAferoFS_Delete(t *testing.T) {
	fs := NewMem()
	if err := fs.WriteText("/a.txt", "x"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if err := fs.Delete("/a.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := fs.Exists("/a.txt"); ok {
		t.Fatal("file should be gone after Delete")
	}
}

func TestNullFS_ReportsUnsupported(t *testing.T) {
	var fs workspace.FS = NullFS{}

	if _, err := fs.ReadText("/a"); !errors.Is(err, workspace.ErrUnsupported) {
		t.Fatalf("ReadText err=%v, want ErrUnsupported", err)
	}
	if err := fs.WriteText("/a", "x"); !errors.Is(err, workspace.ErrUnsupported) {
		t.Fatalf("WriteText err=%v, want ErrUnsupported", err)
	}
	if _, err := fs.Exists("/a"); !errors.Is(err, workspace.ErrUnsupported) {
		t.Fatalf("Exists err=%v, want ErrUnsupported", err)
	}
	if err := fs.Delete("/a"); !errors.Is(err, workspace.ErrUnsupported) {
		t.Fatalf("Delete err=%v, want ErrUnsupported", err)
	}
}
