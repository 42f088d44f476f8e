// ABOUTME: Tests for the live bar session and config loading with CLI overrides
// ABOUTME: Bars are bootstrapped with the fixed font onto a discarding surface

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mauromedda/statusbar-go/internal/bar"
	"github.com/mauromedda/statusbar-go/internal/config"
	"github.com/mauromedda/statusbar-go/internal/surface"
)

func testLoader(t *testing.T, surf *surface.Discard, fail *bool) func() (*bar.Bar, error) {
	t.Helper()
	return func() (*bar.Bar, error) {
		if fail != nil && *fail {
			return nil, errors.New("broken config")
		}
		cfg := config.DefaultBar()
		cfg.Width = "120"
		cfg.Height = "16"
		cfg.Fonts = []string{"fixed"}
		monitors := []config.Monitor{{Name: "test", Width: 400, Height: 300}}
		return bar.Bootstrap("test", cfg, monitors, surf, nil)
	}
}

func TestSession_ReloadReplaysLastInput(t *testing.T) {
	t.Parallel()

	surf := &surface.Discard{}
	sess, err := newSession(testLoader(t, surf, nil))
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer sess.Close()

	var swapped *bar.Bar
	sess.onSwap = func(b *bar.Bar) { swapped = b }

	sess.Parse("%{A:x:}abc%{A}", false)
	_, before := surf.Last()
	old := sess.current()

	sess.Reload()

	if sess.current() == old {
		t.Fatal("Reload did not swap the bar")
	}
	if swapped != sess.current() {
		t.Error("onSwap not called with the new bar")
	}
	if _, after := surf.Last(); after != before+1 {
		t.Errorf("presents after reload = %d; want %d", after, before+1)
	}
	if n := len(sess.current().Regions()); n != 1 {
		t.Errorf("regions after reload = %d; want 1", n)
	}
}

func TestSession_ReloadBeforeInputDoesNotParse(t *testing.T) {
	t.Parallel()

	surf := &surface.Discard{}
	sess, err := newSession(testLoader(t, surf, nil))
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer sess.Close()

	sess.Reload()
	if _, n := surf.Last(); n != 0 {
		t.Errorf("presents = %d; want 0", n)
	}
}

func TestSession_FailedReloadKeepsBar(t *testing.T) {
	t.Parallel()

	fail := false
	sess, err := newSession(testLoader(t, &surface.Discard{}, &fail))
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer sess.Close()

	old := sess.current()
	fail = true
	sess.Reload()
	if sess.current() != old {
		t.Error("failed reload replaced the bar")
	}
}

func TestNewSession_BootstrapError(t *testing.T) {
	t.Parallel()

	fail := true
	if _, err := newSession(testLoader(t, &surface.Discard{}, &fail)); err == nil {
		t.Fatal("newSession succeeded; want error")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("surface: png\ndispatch: print\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(config.EnvSurface, "")
	t.Setenv(config.EnvDispatch, "")

	cfg, err := loadConfig(cliArgs{config: path, dispatch: "exec", output: "/tmp/x.png"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Surface != config.SurfacePNG {
		t.Errorf("Surface = %q; want png", cfg.Surface)
	}
	if cfg.Dispatch != config.DispatchExec {
		t.Errorf("Dispatch = %q; want exec", cfg.Dispatch)
	}
	if cfg.Output != "/tmp/x.png" {
		t.Errorf("Output = %q; want /tmp/x.png", cfg.Output)
	}

	if _, err := loadConfig(cliArgs{config: path, surface: "hologram"}); err == nil {
		t.Error("loadConfig accepted unknown surface override")
	}
}

func TestBarLoader_UnknownBar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.EnvSurface, "")

	load := barLoader(cliArgs{config: path, bar: "nope"}, &surface.Discard{}, nil)
	if _, err := load(); !errors.Is(err, config.ErrBarNotFound) {
		t.Errorf("load() = %v; want ErrBarNotFound", err)
	}
}
