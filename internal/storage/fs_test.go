package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("20230504T162825--hello.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("20230504T162825--hello.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestListFlat(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("b.md", []byte("b"))
	_ = s.Write("readme.txt", []byte("not md"))

	// Files inside subdirectories are outside the vault's flat corpus.
	sub := filepath.Join(s.root, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "c.md"), []byte("c"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.Checksum == "" {
			t.Errorf("missing checksum for %s", it.Name)
		}
	}
}

func TestDelete(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("del.md", []byte("bye"))
	if err := s.Delete("del.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.md"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestRename(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("old.md", []byte("data"))
	if err := s.Rename("old.md", "new.md"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	got, err := s.Read("new.md")
	if err != nil {
		t.Fatalf("Read after rename: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q", got)
	}
	if _, err := s.Read("old.md"); err == nil {
		t.Error("old name should not exist")
	}
}

func TestRenameSameNameNoop(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("same.md", []byte("keep"))
	if err := s.Rename("same.md", "same.md"); err != nil {
		t.Fatalf("Rename to self: %v", err)
	}
	got, _ := s.Read("same.md")
	if string(got) != "keep" {
		t.Errorf("content = %q", got)
	}
}

func TestRenameRefusesExistingDestination(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("src.md", []byte("src"))
	_ = s.Write("dst.md", []byte("dst"))
	err := s.Rename("src.md", "dst.md")
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("err = %v, want os.ErrExist", err)
	}
	// Neither file may have been touched.
	got, _ := s.Read("dst.md")
	if string(got) != "dst" {
		t.Errorf("destination clobbered: %q", got)
	}
	if _, err := s.Read("src.md"); err != nil {
		t.Errorf("source vanished: %v", err)
	}
}

func TestRenameMissingSource(t *testing.T) {
	s := tempVault(t)
	err := s.Rename("ghost.md", "new.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestInvalidNamesBlocked(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"",
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
		"sub/note.md",
		`win\note.md`,
		".",
		"..",
	}
	for _, n := range cases {
		if _, err := s.Read(n); err == nil {
			t.Errorf("expected error reading %q", n)
		}
		if err := s.Write(n, []byte("x")); err == nil {
			t.Errorf("expected error writing %q", n)
		}
		if err := s.Rename(n, "ok.md"); err == nil {
			t.Errorf("expected error renaming from %q", n)
		}
		if err := s.Rename("ok.md", n); err == nil {
			t.Errorf("expected error renaming to %q", n)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("atomic.md", []byte("original content"))
	if err := s.Write("atomic.md", []byte("updated content")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != "updated content" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".ansuz-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "ansuz-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
