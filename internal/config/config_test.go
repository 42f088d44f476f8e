// ABOUTME: Tests for YAML config parsing, defaults, border resolution, and bar lookup
// ABOUTME: Uses temp directories for file-based loading

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleConfig = `
surface: png
output: /tmp/out.png
monitors:
  - name: DP-1
    width: 1920
    height: 1080
  - name: HDMI-1
    width: 1280
    height: 1024
    x: 1920
bars:
  top:
    monitor: HDMI-1
    height: 20
    border-size: 2
    border-color: "#ff0000"
    border-left: 5
    border-bottom-color: "#00ff00"
    font:
      - "go:size=11;1"
      - fixed
    tray-position: right
`

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Surface != SurfacePNG {
		t.Errorf("Surface = %q, want png", cfg.Surface)
	}
	if cfg.Dispatch != DispatchPrint {
		t.Errorf("Dispatch = %q, want default print", cfg.Dispatch)
	}
	if len(cfg.Monitors) != 2 || cfg.Monitors[1].X != 1920 {
		t.Errorf("Monitors = %+v", cfg.Monitors)
	}

	name, bar, err := cfg.Bar("")
	if err != nil {
		t.Fatalf("Bar: %v", err)
	}
	if name != "top" {
		t.Errorf("bar name = %q, want top", name)
	}
	if bar.Height != "20" || bar.Monitor != "HDMI-1" || len(bar.Fonts) != 2 {
		t.Errorf("bar = %+v", bar)
	}
	// Omitted keys keep their defaults.
	if bar.Width != "100%" || bar.Background != "#222222" || bar.LineHeight != 1 {
		t.Errorf("defaults lost: width=%q bg=%q lh=%d", bar.Width, bar.Background, bar.LineHeight)
	}
}

func TestBarBorder(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	_, bar, _ := cfg.Bar("top")

	tests := []struct {
		edge  Edge
		size  int
		color string
	}{
		{EdgeTop, 2, "#ff0000"},
		{EdgeBottom, 2, "#00ff00"},
		{EdgeLeft, 5, "#ff0000"},
		{EdgeRight, 2, "#ff0000"},
	}
	for _, tt := range tests {
		size, color := bar.Border(tt.edge)
		if size != tt.size || color != tt.color {
			t.Errorf("Border(%d) = (%d, %q), want (%d, %q)", tt.edge, size, color, tt.size, tt.color)
		}
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Monitors) != 1 || cfg.Monitors[0] != DefaultMonitor {
		t.Errorf("Monitors = %+v, want default", cfg.Monitors)
	}
	if _, _, err := cfg.Bar(""); err != nil {
		t.Errorf("default bar missing: %v", err)
	}
}

func TestParse_ExplicitEmptyMonitors(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("monitors: []\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Monitors) != 0 {
		t.Errorf("Monitors = %+v, want empty", cfg.Monitors)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "bars: [\n"},
		{"bad surface", "surface: hologram\n"},
		{"bad dispatch", "dispatch: carrier-pigeon\n"},
		{"bad tray", "bars:\n  a:\n    tray-position: top\n"},
		{"bad type", "bars:\n  a:\n    lineheight: tall\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.yaml)
			}
		})
	}
}

func TestBar_NotFound(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if _, _, err := cfg.Bar("nope"); !errors.Is(err, ErrBarNotFound) {
		t.Errorf("err = %v, want ErrBarNotFound", err)
	}
}

func TestBar_NotFoundSuggestsName(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Bars = map[string]Bar{"top": DefaultBar(), "bottom": DefaultBar()}
	_, _, err := cfg.Bar("tp")
	if !errors.Is(err, ErrBarNotFound) {
		t.Fatalf("err = %v, want ErrBarNotFound", err)
	}
	if !strings.Contains(err.Error(), `did you mean "top"`) {
		t.Errorf("err = %q, want suggestion for top", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Bars) != 1 {
		t.Errorf("Bars = %d, want 1", len(cfg.Bars))
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "/tmp/out.png" {
		t.Errorf("Output = %q", cfg.Output)
	}
}

func TestDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := File(); got != "/xdg/statusbar/config.yaml" {
		t.Errorf("File = %q", got)
	}
}
