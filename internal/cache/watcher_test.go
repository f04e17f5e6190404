package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MadAppGang/sourcemap/internal/logging"
)

func TestWatcherInvalidatesOnSnapshotChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bundle.smap")
	writeSnapshot(t, path)

	c := New(logging.Nop())
	if _, err := c.Get(path); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", c.Size())
	}

	w, err := NewWatcher(tmpDir, c, logging.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	writeSnapshot(t, path) // simulates a rebuild overwriting the file

	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			if c.Size() == 0 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for invalidation")
		}
	}
}

func TestWatcherIgnoresNonSnapshotFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bundle.smap")
	writeSnapshot(t, path)

	c := New(logging.Nop())
	if _, err := c.Get(path); err != nil {
		t.Fatalf("Get: %v", err)
	}

	w, err := NewWatcher(tmpDir, c, logging.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	time.Sleep(700 * time.Millisecond)
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1 (unrelated file should not invalidate)", c.Size())
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	c := New(logging.Nop())

	w, err := NewWatcher(tmpDir, c, logging.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
