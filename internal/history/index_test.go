package history

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// fakeStore 内存假存储 / fakeStore is an in-memory store fake
type fakeStore struct {
	data map[string]string
	sets int
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string]string{}} }

func (f *fakeStore) Get(key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStore) Set(key, value string) error {
	f.sets++
	f.data[key] = value
	return nil
}

func (f *fakeStore) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func TestIndex_AddMovesToFront(t *testing.T) {
	ix := New(newFakeStore(), 0)
	ix.Add("/c")
	ix.Add("/b")
	ix.Add("/a")
	// 起点 ["/a","/b","/c"]，Add("/b") 应得 ["/b","/a","/c"]
	ix.Add("/b")

	got := ix.Entries()
	want := []string{"/b", "/a", "/c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Entries=%v, want %v", got, want)
	}
}

func TestIndex_CapTruncates(t *testing.T) {
	ix := New(newFakeStore(), 3)
	for i := 0; i < 5; i++ {
		ix.Add(fmt.Sprintf("/f%d", i))
	}
	got := ix.Entries()
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	if got[0] != "/f4" || got[2] != "/f2" {
		t.Fatalf("Entries=%v, want newest three", got)
	}
}

func TestIndex_Remove(t *testing.T) {
	ix := New(newFakeStore(), 0)
	ix.Add("/a")
	ix.Add("/b")
	ix.Remove("/a")

	got := ix.Entries()
	if len(got) != 1 || got[0] != "/b" {
		t.Fatalf("Entries=%v, want [/b]", got)
	}

	// 剔除不存在的路径不报错 / Removing an absent path is a no-op
	ix.Remove("/nope")
	if len(ix.Entries()) != 1 {
		t.Fatal("unexpected mutation on absent remove")
	}
}

func TestIndex_PersistsAndReloads(t *testing.T) {
	store := newFakeStore()
	ix := New(store, 0)
	ix.Add("/a")
	ix.Add("/b")

	reloaded := New(store, 0)
	got := reloaded.Entries()
	want := []string{"/b", "/a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("reloaded Entries=%v, want %v", got, want)
	}
}

func TestIndex_CorruptBlobResets(t *testing.T) {
	store := newFakeStore()
	store.data["file_history"] = `{not json`

	ix := New(store, 0)
	if len(ix.Entries()) != 0 {
		t.Fatalf("Entries=%v, want empty after corrupt blob", ix.Entries())
	}

	// 索引损坏后仍可正常使用 / The index stays usable after the reset
	if _, err := decodeEntries(`{not json`); !errors.Is(err, ErrBlobCorrupt) {
		t.Fatalf("decodeEntries err=%v, want ErrBlobCorrupt", err)
	}

	ix.Add("/a")
	if len(ix.Entries()) != 1 {
		t.Fatal("Add after reset failed")
	}
}

func TestIndex_BlankPathIgnored(t *testing.T) {
	ix := New(newFakeStore(), 0)
	ix.Add("  ")
	if len(ix.Entries()) != 0 {
		t.Fatal("blank path should be ignored")
	}
}
