// ABOUTME: YAML configuration for monitors and bars with defaults and per-edge border resolution
// ABOUTME: Loaded from ~/.config/statusbar/config.yaml unless a path is given

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// Surface and dispatch names accepted in the config and on the CLI.
const (
	SurfaceTerminal = "terminal"
	SurfacePNG      = "png"
	SurfaceWindow   = "window"
	SurfaceNone     = "none"

	DispatchPrint = "print"
	DispatchExec  = "exec"
)

// Config is the whole configuration file.
type Config struct {
	Monitors []Monitor      `yaml:"monitors"`
	Bars     map[string]Bar `yaml:"bars"`
	Surface  string         `yaml:"surface"`
	Dispatch string         `yaml:"dispatch"`
	Output   string         `yaml:"output"`
	LogLevel string         `yaml:"log-level"`
}

// Monitor is one statically declared output.
type Monitor struct {
	Name    string `yaml:"name"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Primary bool   `yaml:"primary"`
}

// Bar holds the settings of one bar section.
type Bar struct {
	Monitor      string   `yaml:"monitor"`
	Bottom       bool     `yaml:"bottom"`
	Dock         bool     `yaml:"dock"`
	Width        string   `yaml:"width"`
	Height       string   `yaml:"height"`
	OffsetX      int      `yaml:"offset-x"`
	OffsetY      int      `yaml:"offset-y"`
	Spacing      int      `yaml:"spacing"`
	LineHeight   int      `yaml:"lineheight"`
	PaddingLeft  int      `yaml:"padding-left"`
	PaddingRight int      `yaml:"padding-right"`
	Background   string   `yaml:"background"`
	Foreground   string   `yaml:"foreground"`
	LineColor    string   `yaml:"linecolor"`
	Fonts        []string `yaml:"font"`
	TrayPosition string   `yaml:"tray-position"`
	Separator    string   `yaml:"separator"`
	WMName       string   `yaml:"wm-name"`

	BorderSize  int    `yaml:"border-size"`
	BorderColor string `yaml:"border-color"`

	BorderTop         *int   `yaml:"border-top"`
	BorderBottom      *int   `yaml:"border-bottom"`
	BorderLeft        *int   `yaml:"border-left"`
	BorderRight       *int   `yaml:"border-right"`
	BorderTopColor    string `yaml:"border-top-color"`
	BorderBottomColor string `yaml:"border-bottom-color"`
	BorderLeftColor   string `yaml:"border-left-color"`
	BorderRightColor  string `yaml:"border-right-color"`
}

// Edge names one side of a bar.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// DefaultBarName is used when the file declares no bars.
const DefaultBarName = "default"

// ErrBarNotFound is returned by Config.Bar for an unknown section.
var ErrBarNotFound = errors.New("config: bar not found")

// DefaultMonitor is used when the file declares no monitors.
var DefaultMonitor = Monitor{Name: "default", Width: 1280, Height: 800, Primary: true}

// DefaultBar returns the settings applied before a bar section is read.
func DefaultBar() Bar {
	return Bar{
		Width:        "100%",
		Height:       "24",
		Spacing:      1,
		LineHeight:   1,
		Background:   "#222222",
		Foreground:   "#dfdfdf",
		LineColor:    "#f00",
		BorderColor:  "#000000",
		Fonts:        []string{"go-mono:size=10;0"},
		TrayPosition: "none",
	}
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Monitors: []Monitor{DefaultMonitor},
		Bars:     map[string]Bar{DefaultBarName: DefaultBar()},
		Surface:  SurfaceTerminal,
		Dispatch: DispatchPrint,
	}
}

// Load reads the file at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			ApplyEnv(cfg)
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML and fills in defaults. Bar sections are decoded on
// top of DefaultBar so omitted keys keep their defaults.
func Parse(data []byte) (*Config, error) {
	var raw struct {
		Monitors []Monitor           `yaml:"monitors"`
		Bars     map[string]yaml.Node `yaml:"bars"`
		Surface  string              `yaml:"surface"`
		Dispatch string              `yaml:"dispatch"`
		Output   string              `yaml:"output"`
		LogLevel string              `yaml:"log-level"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		Monitors: raw.Monitors,
		Bars:     make(map[string]Bar, len(raw.Bars)),
		Surface:  raw.Surface,
		Dispatch: raw.Dispatch,
		Output:   raw.Output,
		LogLevel: raw.LogLevel,
	}
	for name, node := range raw.Bars {
		bar := DefaultBar()
		if err := node.Decode(&bar); err != nil {
			return nil, fmt.Errorf("bar %q: %w", name, err)
		}
		cfg.Bars[name] = bar
	}

	if cfg.Monitors == nil {
		cfg.Monitors = []Monitor{DefaultMonitor}
	}
	if len(cfg.Bars) == 0 {
		cfg.Bars[DefaultBarName] = DefaultBar()
	}
	if cfg.Surface == "" {
		cfg.Surface = SurfaceTerminal
	}
	if cfg.Dispatch == "" {
		cfg.Dispatch = DispatchPrint
	}

	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if !slices.Contains([]string{SurfaceTerminal, SurfacePNG, SurfaceWindow, SurfaceNone}, c.Surface) {
		return fmt.Errorf("unknown surface %q", c.Surface)
	}
	if !slices.Contains([]string{DispatchPrint, DispatchExec}, c.Dispatch) {
		return fmt.Errorf("unknown dispatch mode %q", c.Dispatch)
	}
	for name, b := range c.Bars {
		switch b.TrayPosition {
		case "", "none", "left", "right":
		default:
			return fmt.Errorf("bar %q: unknown tray-position %q", name, b.TrayPosition)
		}
	}
	return nil
}

// BarNames returns the declared bar names, sorted.
func (c *Config) BarNames() []string {
	names := make([]string, 0, len(c.Bars))
	for name := range c.Bars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bar returns the named bar section. An empty name picks the only bar, or
// the default bar when several exist.
func (c *Config) Bar(name string) (string, Bar, error) {
	if name == "" {
		names := c.BarNames()
		switch {
		case len(names) == 1:
			name = names[0]
		default:
			name = DefaultBarName
		}
	}
	b, ok := c.Bars[name]
	if !ok {
		if matches := fuzzy.Find(name, c.BarNames()); len(matches) > 0 {
			return "", Bar{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrBarNotFound, name, matches[0].Str)
		}
		return "", Bar{}, fmt.Errorf("%w: %q", ErrBarNotFound, name)
	}
	return name, b, nil
}

// Border returns the size and color of one edge. Per-edge keys override
// border-size and border-color.
func (b Bar) Border(e Edge) (int, string) {
	size, color := b.BorderSize, b.BorderColor
	var override *int
	var overrideColor string
	switch e {
	case EdgeTop:
		override, overrideColor = b.BorderTop, b.BorderTopColor
	case EdgeBottom:
		override, overrideColor = b.BorderBottom, b.BorderBottomColor
	case EdgeLeft:
		override, overrideColor = b.BorderLeft, b.BorderLeftColor
	case EdgeRight:
		override, overrideColor = b.BorderRight, b.BorderRightColor
	}
	if override != nil {
		size = *override
	}
	if overrideColor != "" {
		color = overrideColor
	}
	return size, color
}
