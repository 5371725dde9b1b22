package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/testutil"
)

var testInstant = time.Date(2023, 5, 4, 16, 28, 25, 0, time.UTC)

func testService(t *testing.T) (*Service, storage.Provider, *index.DB) {
	t.Helper()

	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, db, logger, WithClock(func() time.Time { return testInstant }))
	return svc, store, db
}

// fakeBuffer records the reload it receives so tests can assert on the
// buffer-continuity protocol.
type fakeBuffer struct {
	content []byte
	dirty   bool

	reloadedName    string
	reloadedContent []byte
	reloadedDirty   bool
}

func (b *fakeBuffer) Unsaved() ([]byte, bool) { return b.content, b.dirty }

func (b *fakeBuffer) Reload(name string, content []byte, dirty bool) error {
	b.reloadedName = name
	b.reloadedContent = content
	b.reloadedDirty = dirty
	return nil
}

func TestList_NewestFirstAndFiltered(t *testing.T) {
	svc, store, _ := testService(t)
	_ = store.Write("20230504T162825--older.md", []byte("a"))
	_ = store.Write("20230601T080000--newest__x.md", []byte("b"))
	_ = store.Write("20230515T120000--middle.md", []byte("c"))
	_ = store.Write("README.md", []byte("not a note"))

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	want := []string{
		"20230601T080000--newest__x.md",
		"20230515T120000--middle.md",
		"20230504T162825--older.md",
	}
	for i, w := range want {
		if entries[i].Name != w {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].Name, w)
		}
	}
	if entries[0].Title != "newest" {
		t.Errorf("title = %q", entries[0].Title)
	}
}

func TestCollectTags(t *testing.T) {
	svc, store, _ := testService(t)
	_ = store.Write("20230504T162825--a__editor_tools.md", []byte("a"))
	_ = store.Write("20230505T162825--b__tools_unix.md", []byte("b"))
	_ = store.Write("20230506T162825--c.md", []byte("c"))
	_ = store.Write("notatall.md", []byte("skip me"))

	tags, err := svc.CollectTags(context.Background())
	if err != nil {
		t.Fatalf("CollectTags: %v", err)
	}
	want := []string{"editor", "tools", "unix"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestTagChoices(t *testing.T) {
	svc, store, _ := testService(t)
	_ = store.Write("20230504T162825--a__editor_tools.md", []byte("a"))
	_ = store.Write("20230505T162825--b__unix.md", []byte("b"))

	choices, err := svc.TagChoices(context.Background(), "20230504T162825--a__editor_tools.md")
	if err != nil {
		t.Fatalf("TagChoices: %v", err)
	}
	if len(choices) != 3 {
		t.Fatalf("choices = %v", choices)
	}
	// Enabled first, both groups sorted.
	if !choices[0].Enabled || choices[0].Name != "editor" {
		t.Errorf("choices[0] = %+v", choices[0])
	}
	if !choices[1].Enabled || choices[1].Name != "tools" {
		t.Errorf("choices[1] = %+v", choices[1])
	}
	if choices[2].Enabled || choices[2].Name != "unix" {
		t.Errorf("choices[2] = %+v", choices[2])
	}
}

func TestTagChoices_NotANote(t *testing.T) {
	svc, _, _ := testService(t)
	_, err := svc.TagChoices(context.Background(), "README.md")
	if !errors.Is(err, apperr.ErrNotANote) {
		t.Fatalf("err = %v, want ErrNotANote", err)
	}
}

func TestToggleTag_On(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--configuring-neovim__editor_tools.md"
	_ = store.Write(current, []byte("# Configuring Neovim\n"))

	got, err := svc.ToggleTag(context.Background(), current, "unix", nil)
	if err != nil {
		t.Fatalf("ToggleTag: %v", err)
	}
	want := "20230504T162825--configuring-neovim__editor_tools_unix.md"
	if got != want {
		t.Errorf("name = %s, want %s", got, want)
	}
	if _, err := store.Read(want); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if _, err := store.Read(current); err == nil {
		t.Error("old file still present")
	}
}

func TestToggleTag_Off(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--configuring-neovim__editor_tools.md"
	_ = store.Write(current, []byte("# Configuring Neovim\n"))

	got, err := svc.ToggleTag(context.Background(), current, "editor", nil)
	if err != nil {
		t.Fatalf("ToggleTag: %v", err)
	}
	if want := "20230504T162825--configuring-neovim__tools.md"; got != want {
		t.Errorf("name = %s, want %s", got, want)
	}
}

func TestToggleTag_LastTagRemoved(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--note__solo.md"
	_ = store.Write(current, []byte("x"))

	got, err := svc.ToggleTag(context.Background(), current, "solo", nil)
	if err != nil {
		t.Fatalf("ToggleTag: %v", err)
	}
	if want := "20230504T162825--note.md"; got != want {
		t.Errorf("name = %s, want %s", got, want)
	}
}

func TestToggleTag_NoSelection(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--note__a.md"
	_ = store.Write(current, []byte("x"))

	for _, tag := range []string{"", "   ", "!!"} {
		_, err := svc.ToggleTag(context.Background(), current, tag, nil)
		if !errors.Is(err, apperr.ErrNoSelection) {
			t.Errorf("tag %q: err = %v, want ErrNoSelection", tag, err)
		}
	}
	if _, err := store.Read(current); err != nil {
		t.Errorf("file should be untouched: %v", err)
	}
}

func TestToggleTag_NotANote(t *testing.T) {
	svc, _, _ := testService(t)
	_, err := svc.ToggleTag(context.Background(), "notes.txt", "unix", nil)
	if !errors.Is(err, apperr.ErrNotANote) {
		t.Fatalf("err = %v, want ErrNotANote", err)
	}
}

func TestToggleTag_MissingFile(t *testing.T) {
	svc, _, _ := testService(t)
	_, err := svc.ToggleTag(context.Background(), "20230504T162825--ghost.md", "unix", nil)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestToggleTag_DestinationExists(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--note__a.md"
	occupied := "20230504T162825--note__a_b.md"
	_ = store.Write(current, []byte("mine"))
	_ = store.Write(occupied, []byte("other"))

	_, err := svc.ToggleTag(context.Background(), current, "b", nil)
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	got, _ := store.Read(current)
	if string(got) != "mine" {
		t.Errorf("source content = %q", got)
	}
	got, _ = store.Read(occupied)
	if string(got) != "other" {
		t.Errorf("destination content = %q", got)
	}
}

func TestRetitle(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--configuring-neovim__editor_tools.md"
	_ = store.Write(current, []byte("# Configuring Neovim\n"))

	got, err := svc.Retitle(context.Background(), current, "NeoVim Setup", nil)
	if err != nil {
		t.Fatalf("Retitle: %v", err)
	}
	// Identifier and tags survive, only the title slug changes.
	if want := "20230504T162825--neovim-setup__editor_tools.md"; got != want {
		t.Errorf("name = %s, want %s", got, want)
	}
}

func TestRetitle_Blank(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--note.md"
	_ = store.Write(current, []byte("x"))

	for _, title := range []string{"", "   "} {
		_, err := svc.Retitle(context.Background(), current, title, nil)
		if !errors.Is(err, apperr.ErrNoSelection) {
			t.Errorf("title %q: err = %v, want ErrNoSelection", title, err)
		}
	}
}

func TestRetitle_InvalidTitle(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--note.md"
	_ = store.Write(current, []byte("x"))

	_, err := svc.Retitle(context.Background(), current, "!!!", nil)
	if err == nil {
		t.Fatal("expected error for unsluggable title")
	}
	if errors.Is(err, apperr.ErrNoSelection) {
		t.Fatal("unsluggable title is invalid input, not a cancel")
	}
	if _, err := store.Read(current); err != nil {
		t.Errorf("file should be untouched: %v", err)
	}
}

func TestRetitle_SameTitleNoop(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--note__a.md"
	_ = store.Write(current, []byte("x"))
	buf := &fakeBuffer{}

	got, err := svc.Retitle(context.Background(), current, "note", buf)
	if err != nil {
		t.Fatalf("Retitle: %v", err)
	}
	if got != current {
		t.Errorf("name = %s, want unchanged", got)
	}
	if buf.reloadedName != "" {
		t.Error("no-op rename should not touch the buffer")
	}
}

func TestCreate(t *testing.T) {
	svc, store, db := testService(t)

	name, err := svc.Create(context.Background(), "Meeting Notes", []string{"Work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := "20230504T162825--meeting-notes__work.md"; name != want {
		t.Errorf("name = %s, want %s", name, want)
	}
	data, err := store.Read(name)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "# Meeting Notes\n" {
		t.Errorf("content = %q", data)
	}
	cs, _ := db.GetChecksum(name)
	if cs == "" {
		t.Error("new note not indexed")
	}
}

func TestCreate_IDCollisionAdvances(t *testing.T) {
	svc, store, _ := testService(t)
	_ = store.Write("20230504T162825--already-here.md", []byte("x"))

	name, err := svc.Create(context.Background(), "Second Note", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := "20230504T162826--second-note.md"; name != want {
		t.Errorf("name = %s, want %s", name, want)
	}
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc, _, _ := testService(t)
	for _, title := range []string{"", "!!!"} {
		if _, err := svc.Create(context.Background(), title, nil); err == nil {
			t.Errorf("title %q: expected error", title)
		}
	}
}

func TestLinkText(t *testing.T) {
	svc, _, _ := testService(t)
	got, err := svc.LinkText(context.Background(), "20230504T162825--configuring-neovim__editor_tools.md")
	if err != nil {
		t.Fatalf("LinkText: %v", err)
	}
	want := "[configuring neovim](20230504T162825--configuring-neovim__editor_tools.md)"
	if got != want {
		t.Errorf("link = %q, want %q", got, want)
	}
}

func TestLinkText_NotANote(t *testing.T) {
	svc, _, _ := testService(t)
	_, err := svc.LinkText(context.Background(), "README.md")
	if !errors.Is(err, apperr.ErrNotANote) {
		t.Fatalf("err = %v, want ErrNotANote", err)
	}
}

func TestRename_DirtyBufferCarriesEdits(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--note.md"
	_ = store.Write(current, []byte("saved content"))
	buf := &fakeBuffer{content: []byte("unsaved edits"), dirty: true}

	got, err := svc.ToggleTag(context.Background(), current, "new", buf)
	if err != nil {
		t.Fatalf("ToggleTag: %v", err)
	}
	if buf.reloadedName != got {
		t.Errorf("buffer points at %q, want %q", buf.reloadedName, got)
	}
	if string(buf.reloadedContent) != "unsaved edits" {
		t.Errorf("buffer content = %q", buf.reloadedContent)
	}
	if !buf.reloadedDirty {
		t.Error("buffer should still be dirty")
	}
	// Disk keeps the saved content until the editor writes again.
	data, _ := store.Read(got)
	if string(data) != "saved content" {
		t.Errorf("disk content = %q", data)
	}
}

func TestRename_CleanBufferReloadsFromDisk(t *testing.T) {
	svc, store, _ := testService(t)
	current := "20230504T162825--note.md"
	_ = store.Write(current, []byte("saved content"))
	buf := &fakeBuffer{content: []byte("saved content"), dirty: false}

	got, err := svc.Retitle(context.Background(), current, "Renamed Note", buf)
	if err != nil {
		t.Fatalf("Retitle: %v", err)
	}
	if buf.reloadedName != got {
		t.Errorf("buffer points at %q, want %q", buf.reloadedName, got)
	}
	if string(buf.reloadedContent) != "saved content" {
		t.Errorf("buffer content = %q", buf.reloadedContent)
	}
	if buf.reloadedDirty {
		t.Error("buffer should be clean")
	}
}

func TestRename_UpdatesIndex(t *testing.T) {
	svc, store, db := testService(t)
	current := "20230504T162825--note.md"
	_ = store.Write(current, []byte("body text"))
	if err := index.Sync(db, store, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	got, err := svc.ToggleTag(context.Background(), current, "tagged", nil)
	if err != nil {
		t.Fatalf("ToggleTag: %v", err)
	}
	cs, _ := db.GetChecksum(current)
	if cs != "" {
		t.Error("old name still indexed")
	}
	cs, _ = db.GetChecksum(got)
	if cs == "" {
		t.Error("new name not indexed")
	}
}

// readFailStore fails reads of one name so the read back after a rename
// can be driven into its error path.
type readFailStore struct {
	storage.Provider
	failName string
}

func (s *readFailStore) Read(name string) ([]byte, error) {
	if name == s.failName {
		return nil, fmt.Errorf("storage: read %s: %w", name, os.ErrPermission)
	}
	return s.Provider.Read(name)
}

func TestRename_ReadBackFailureKeepsBufferView(t *testing.T) {
	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	current := "20230504T162825--note.md"
	newName := "20230504T162825--note__x.md"
	_ = store.Write(current, []byte("# Note\n"))

	failing := &readFailStore{Provider: store, failName: newName}
	svc := NewService(failing, db, logger, WithClock(func() time.Time { return testInstant }))

	buf := &fakeBuffer{content: []byte("# Note\n"), dirty: false}
	got, err := svc.ToggleTag(context.Background(), current, "x", buf)
	if err != nil {
		t.Fatalf("ToggleTag: %v", err)
	}
	if got != newName {
		t.Fatalf("name = %s, want %s", got, newName)
	}
	if buf.reloadedName != newName {
		t.Errorf("buffer points at %q, want %q", buf.reloadedName, newName)
	}
	if string(buf.reloadedContent) != "# Note\n" {
		t.Errorf("buffer content = %q, want its own view kept", buf.reloadedContent)
	}
	if buf.reloadedDirty {
		t.Error("clean buffer reported dirty")
	}
}

func TestBacklinks(t *testing.T) {
	svc, store, db := testService(t)
	target := "20230504T162825--target.md"
	source := "20230505T090000--source.md"
	_ = store.Write(target, []byte("# Target\n"))
	_ = store.Write(source, []byte("see [target](20230504T162825--target.md)\n"))
	if err := index.Sync(db, store, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	bl, err := svc.Backlinks(context.Background(), target)
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 1 || bl[0] != source {
		t.Errorf("backlinks = %v, want [%s]", bl, source)
	}
}

func TestBacklinks_NotANote(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.Backlinks(context.Background(), "README.md")
	if !errors.Is(err, apperr.ErrNotANote) {
		t.Fatalf("err = %v, want ErrNotANote", err)
	}
}
