package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskReleaseRemovesUpload(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "1700000000-syrup.png")
	if err := os.WriteFile(file, []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewDiskStore(dir)
	if err := s.Release(context.Background(), "/uploads/1700000000-syrup.png"); err != nil {
		t.Fatalf("Release: %v", err)
	}

	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatalf("file still exists: %v", err)
	}
}

func TestDiskReleaseMissingFile(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	if err := s.Release(context.Background(), "/uploads/never-existed.png"); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestDiskReleaseIgnoresForeignPaths(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	for _, path := range []string{
		"https://cdn.example.com/items/1.png",
		"items/1.png",
		"",
	} {
		if err := s.Release(context.Background(), path); err != nil {
			t.Errorf("Release(%q): %v", path, err)
		}
	}
}

func TestDiskReleaseRefusesTraversal(t *testing.T) {
	dir := t.TempDir()

	outside := filepath.Join(dir, "secret")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewDiskStore(filepath.Join(dir, "uploads"))
	for _, path := range []string{
		"/uploads/../secret",
		"/uploads/..",
		"/uploads/a/../../secret",
	} {
		if err := s.Release(context.Background(), path); err == nil {
			t.Errorf("Release(%q) succeeded, want refusal", path)
		}
	}

	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside uploads dir was touched: %v", err)
	}
}
