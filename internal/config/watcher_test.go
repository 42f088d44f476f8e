// ABOUTME: Tests for polling-based file watcher
// ABOUTME: Validates change detection via Run and ForceCheck, removal, and cancellation

package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_DetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("surface: none\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var called atomic.Int32
	w := NewWatcher([]string{path}, func() { called.Add(1) })
	w.SetInterval(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("surface: png\nbars: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for called.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
	if called.Load() == 0 {
		t.Error("expected onChange to be called after file modification")
	}
}

func TestWatcher_ForceCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var called atomic.Int32
	w := NewWatcher([]string{path}, func() { called.Add(1) })

	if w.ForceCheck() {
		t.Fatal("ForceCheck reported a change for an untouched file")
	}

	if err := os.WriteFile(path, []byte("a: 12345\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if !w.ForceCheck() {
		t.Fatal("ForceCheck missed a size change")
	}
	if called.Load() != 1 {
		t.Errorf("onChange calls = %d, want 1", called.Load())
	}
	if w.ForceCheck() {
		t.Error("second ForceCheck should see no change")
	}
}

func TestWatcher_DetectsRemovalAndCreation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher([]string{path}, func() {})
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if !w.ForceCheck() {
		t.Error("removal not detected")
	}
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if !w.ForceCheck() {
		t.Error("creation not detected")
	}
}

func TestWatcher_MissingFileNoChange(t *testing.T) {
	t.Parallel()

	w := NewWatcher([]string{"/nonexistent/file.yaml"}, func() {})
	if w.ForceCheck() {
		t.Error("missing file should not count as a change")
	}
}
