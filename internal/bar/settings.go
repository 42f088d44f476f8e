// ABOUTME: Bar, border, and tray settings plus the bootstrap that derives them from config
// ABOUTME: Geometry follows monitor size, offsets, borders, and bottom placement

package bar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mauromedda/statusbar-go/internal/color"
	"github.com/mauromedda/statusbar-go/internal/config"
	"github.com/mauromedda/statusbar-go/internal/log"
	"github.com/mauromedda/statusbar-go/internal/mathutil"
	"github.com/mauromedda/statusbar-go/internal/render"
)

// Fatal bootstrap errors.
var (
	ErrNoMonitors      = errors.New("no monitors found")
	ErrMonitorNotFound = errors.New("could not find monitor")
	ErrGeometry        = errors.New("resulting bar geometry is out of bounds")
)

// maxTraySlot is the largest tray icon edge in pixels.
const maxTraySlot = 24

// BorderSettings is the size and color of one edge.
type BorderSettings = render.Border

// Settings is the bar geometry and appearance computed at bootstrap.
type Settings struct {
	Name    string
	Monitor config.Monitor

	X, Y          int
	Width, Height int
	OffsetX       int
	OffsetY       int
	VerticalMid   int
	Spacing       int
	LineHeight    int
	PaddingLeft   int
	PaddingRight  int
	Bottom        bool
	Dock          bool

	Background color.Color
	Foreground color.Color
	Line       color.Color
	Borders    [4]BorderSettings

	Fonts     []string
	Separator string
	WMName    string
}

// Border returns the settings of edge e.
func (s Settings) Border(e config.Edge) BorderSettings {
	return s.Borders[e]
}

// TraySettings describes the area reserved for tray icons.
type TraySettings struct {
	Position render.TrayPosition
	Slots    int
	Width    int
	Height   int
	Spacing  int
	OriginX  int
	OriginY  int
}

// Layout converts the settings into what the renderer consumes.
func (s Settings) Layout(t TraySettings) render.Layout {
	return render.Layout{
		Width:       s.Width,
		Height:      s.Height,
		VerticalMid: s.VerticalMid,
		LineHeight:  s.LineHeight,
		Background:  s.Background,
		Foreground:  s.Foreground,
		Line:        s.Line,
		Top:         s.Borders[config.EdgeTop],
		Bottom:      s.Borders[config.EdgeBottom],
		Left:        s.Borders[config.EdgeLeft],
		Right:       s.Borders[config.EdgeRight],
		Tray: render.Tray{
			Position: t.Position,
			Slots:    t.Slots,
			Width:    t.Width,
			Spacing:  t.Spacing,
		},
	}
}

// Configure computes bar and tray settings for the bar section name.
func Configure(name string, cfg config.Bar, monitors []config.Monitor) (Settings, TraySettings, error) {
	var s Settings
	s.Name = name

	mon, err := findMonitor(cfg.Monitor, monitors)
	if err != nil {
		return Settings{}, TraySettings{}, err
	}
	s.Monitor = mon
	log.Debug("bar: found matching monitor %s (%dx%d+%d+%d)", mon.Name, mon.Width, mon.Height, mon.X, mon.Y)

	defaults := config.DefaultBar()
	s.Background = parseColor("background", cfg.Background, defaults.Background)
	s.Foreground = parseColor("foreground", cfg.Foreground, defaults.Foreground)
	s.Line = parseColor("linecolor", cfg.LineColor, defaults.LineColor)

	for _, e := range []config.Edge{config.EdgeTop, config.EdgeBottom, config.EdgeLeft, config.EdgeRight} {
		size, c := cfg.Border(e)
		s.Borders[e] = BorderSettings{
			Size:  max(size, 0),
			Color: parseColor("border color", c, defaults.BorderColor),
		}
	}

	s.Bottom = cfg.Bottom
	s.Dock = cfg.Dock
	s.Spacing = cfg.Spacing
	s.LineHeight = cfg.LineHeight
	s.OffsetX = cfg.OffsetX
	s.OffsetY = cfg.OffsetY
	s.PaddingLeft = cfg.PaddingLeft
	s.PaddingRight = cfg.PaddingRight

	if s.Width, err = dimension(cfg.Width, mon.Width, "100%"); err != nil {
		return Settings{}, TraySettings{}, fmt.Errorf("width: %w", err)
	}
	if s.Height, err = dimension(cfg.Height, mon.Height, "24"); err != nil {
		return Settings{}, TraySettings{}, fmt.Errorf("height: %w", err)
	}

	s.Width -= s.OffsetX * 2
	s.X = s.OffsetX + mon.X
	s.Y = s.OffsetY + mon.Y

	s.Height += s.Borders[config.EdgeTop].Size
	s.Height += s.Borders[config.EdgeBottom].Size

	if s.Bottom {
		s.Y = mon.Y + mon.Height - s.Height - s.OffsetY
	}

	if s.Width <= 0 || s.Width > mon.Width {
		return Settings{}, TraySettings{}, fmt.Errorf("%w: width %d (monitor %d)", ErrGeometry, s.Width, mon.Width)
	}
	if s.Height <= 0 || s.Height > mon.Height {
		return Settings{}, TraySettings{}, fmt.Errorf("%w: height %d (monitor %d)", ErrGeometry, s.Height, mon.Height)
	}

	s.VerticalMid = (s.Height + s.Borders[config.EdgeTop].Size - s.Borders[config.EdgeBottom].Size) / 2
	log.Debug("bar: resulting bar geom %dx%d+%d+%d", s.Width, s.Height, s.X, s.Y)

	s.WMName = cfg.WMName
	if s.WMName == "" {
		s.WMName = "statusbar-" + name + "_" + mon.Name
	}
	s.WMName = strings.ReplaceAll(s.WMName, " ", "-")
	s.Separator = strings.Trim(strings.TrimSpace(cfg.Separator), `"`)
	s.Fonts = append([]string(nil), cfg.Fonts...)

	return s, configureTray(cfg.TrayPosition, s), nil
}

func configureTray(position string, s Settings) TraySettings {
	var t TraySettings
	switch position {
	case "left":
		t.Position = render.TrayLeft
	case "right":
		t.Position = render.TrayRight
	default:
		return t
	}

	t.Height = s.InnerHeight()
	if t.Height%2 != 0 {
		t.Height--
	}
	if t.Height > maxTraySlot {
		t.Spacing = (t.Height - maxTraySlot) / 2
		t.Height = maxTraySlot
	}
	t.Width = t.Height
	t.OriginY = s.Y + s.Borders[config.EdgeTop].Size

	if t.Position == render.TrayRight {
		t.OriginX = s.X + s.Width - s.Borders[config.EdgeRight].Size
	} else {
		t.OriginX = s.X + s.Borders[config.EdgeLeft].Size
	}
	return t
}

func findMonitor(name string, monitors []config.Monitor) (config.Monitor, error) {
	if len(monitors) == 0 {
		return config.Monitor{}, ErrNoMonitors
	}
	if name == "" {
		return monitors[0], nil
	}
	for _, m := range monitors {
		if m.Name == name {
			return m, nil
		}
	}
	return config.Monitor{}, fmt.Errorf("%w: %s", ErrMonitorNotFound, name)
}

// InnerHeight is the bar height without the top and bottom borders.
func (s Settings) InnerHeight() int {
	return s.Height - s.Borders[config.EdgeTop].Size - s.Borders[config.EdgeBottom].Size
}

// fontFits reports whether a face of fontHeight pixels fits inside the bar.
func fontFits(s Settings, fontHeight int) bool {
	return fontHeight <= s.InnerHeight()
}

// dimension resolves "N" or "N%" against total.
func dimension(value string, total int, fallback string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if pct, ok := strings.CutSuffix(value, "%"); ok {
		p, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage %q", value)
		}
		v := mathutil.PercentageToValue(p, float64(total))
		return int(v + 0.5), nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", value)
	}
	return n, nil
}

func parseColor(key, value, fallback string) color.Color {
	if value == "" {
		value = fallback
	}
	c, err := color.Parse(value)
	if err != nil {
		log.Warn("bar: invalid %s %q, using %s", key, value, fallback)
		return color.ParseOr(fallback, color.Black)
	}
	return c
}
