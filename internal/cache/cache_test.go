package cache

import (
	"os"
	"path/filepath"
	"testing"

	sourcemap "github.com/MadAppGang/sourcemap"
	"github.com/MadAppGang/sourcemap/internal/logging"
)

func writeSnapshot(t *testing.T, path string) {
	t.Helper()

	e := sourcemap.Create()
	if err := e.AddIndexedMapping(sourcemap.IndexedMapping{
		GeneratedLine: 1, GeneratedColumn: 0,
		Source: "a.js", OriginalLine: 1, OriginalColumn: 0,
	}, 0, 0); err != nil {
		t.Fatalf("AddIndexedMapping: %v", err)
	}

	blob, err := e.ToBuffer()
	if err != nil {
		t.Fatalf("ToBuffer: %v", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestCacheHitAndMiss(t *testing.T) {
	c := New(logging.Nop())

	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.smap")
	writeSnapshot(t, path)

	e1, err := c.Get(path)
	if err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	if e1 == nil {
		t.Fatal("expected engine, got nil")
	}

	e2, err := c.Get(path)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if e1 != e2 {
		t.Error("expected same engine instance on cache hit")
	}

	if got := c.Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestCacheGetMissingFile(t *testing.T) {
	c := New(logging.Nop())
	_, err := c.Get(filepath.Join(t.TempDir(), "missing.smap"))
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestCacheGetInvalidSnapshot(t *testing.T) {
	c := New(logging.Nop())

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.smap")
	if err := os.WriteFile(path, []byte("not a snapshot"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := c.Get(path)
	if err == nil {
		t.Fatal("expected error for invalid snapshot")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New(logging.Nop())

	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.smap")
	writeSnapshot(t, path)

	if _, err := c.Get(path); err != nil {
		t.Fatalf("Get: %v", err)
	}
	c.Invalidate(path)
	if got := c.Size(); got != 0 {
		t.Errorf("Size() after Invalidate = %d, want 0", got)
	}

	// Invalidating an absent path is a no-op, not an error.
	c.Invalidate(path)
}

func TestCacheInvalidateAll(t *testing.T) {
	c := New(logging.Nop())

	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.smap")
	p2 := filepath.Join(dir, "b.smap")
	writeSnapshot(t, p1)
	writeSnapshot(t, p2)

	if _, err := c.Get(p1); err != nil {
		t.Fatalf("Get p1: %v", err)
	}
	if _, err := c.Get(p2); err != nil {
		t.Fatalf("Get p2: %v", err)
	}

	c.InvalidateAll()
	if got := c.Size(); got != 0 {
		t.Errorf("Size() after InvalidateAll = %d, want 0", got)
	}
}
