// ABOUTME: Bar facade: owns fonts, renderer, and surface; serializes parse, click, expose, tray reports
// ABOUTME: One mutex guards every entry point; tray reports re-parse after releasing it

package bar

import (
	"fmt"
	"image"
	"sync"

	"github.com/mauromedda/statusbar-go/internal/actions"
	"github.com/mauromedda/statusbar-go/internal/config"
	"github.com/mauromedda/statusbar-go/internal/font"
	"github.com/mauromedda/statusbar-go/internal/log"
	"github.com/mauromedda/statusbar-go/internal/markup"
	"github.com/mauromedda/statusbar-go/internal/render"
)

// Presenter receives the finished canvas after every flush.
type Presenter interface {
	Present(img image.Image) error
}

// Dispatcher runs the command bound to a clicked region.
type Dispatcher interface {
	Dispatch(command string)
}

// Bar is one status bar instance.
type Bar struct {
	mu sync.Mutex

	settings Settings
	tray     TraySettings
	fonts    *font.Manager
	renderer *render.Renderer
	surface  Presenter
	dispatch Dispatcher

	prev   string
	parsed bool
}

// New wires a bar from precomputed settings and a loaded font manager.
func New(s Settings, t TraySettings, fonts *font.Manager, surface Presenter, d Dispatcher) *Bar {
	fonts.AllocateColor(s.Foreground)
	return &Bar{
		settings: s,
		tray:     t,
		fonts:    fonts,
		renderer: render.NewRenderer(s.Layout(t), fonts),
		surface:  surface,
		dispatch: d,
	}
}

// Bootstrap configures the bar section name, loads its fonts, and returns
// a ready bar. Errors are fatal for the process.
func Bootstrap(name string, cfg config.Bar, monitors []config.Monitor, surface Presenter, d Dispatcher) (*Bar, error) {
	s, t, err := Configure(name, cfg, monitors)
	if err != nil {
		return nil, fmt.Errorf("bootstrap bar %q: %w", name, err)
	}

	fonts := font.NewManager()
	if err := fonts.LoadList(s.Fonts); err != nil {
		return nil, fmt.Errorf("bootstrap bar %q: %w", name, err)
	}

	if h := fonts.Height(); !fontFits(s, h) {
		log.Warn("bar: font height %d exceeds bar interior height %d, glyphs will be clipped", h, s.InnerHeight())
	}

	log.Info("bar: %s %dx%d+%d+%d on %s", s.WMName, s.Width, s.Height, s.X, s.Y, s.Monitor.Name)
	return New(s, t, fonts, surface, d), nil
}

// Settings returns the bar settings.
func (b *Bar) Settings() Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

// Tray returns the tray settings including the current slot count.
func (b *Bar) Tray() TraySettings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tray
}

// Parse renders text unless it equals the previous input and force is
// false. It returns the recoverable interpreter errors of this parse.
func (b *Bar) Parse(text string, force bool) []error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parseLocked(text, force)
}

func (b *Bar) parseLocked(text string, force bool) []error {
	if b.parsed && text == b.prev && !force {
		return nil
	}
	b.prev = text
	b.parsed = true

	errs := b.renderer.Render(text)
	b.flushLocked()
	return errs
}

// Flush presents the current canvas.
func (b *Bar) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushLocked()
}

func (b *Bar) flushLocked() {
	for _, r := range b.renderer.Tracker().Regions() {
		if r.Open {
			log.Warn("bar: action block not closed (command %q)", r.Command)
			continue
		}
		log.Debug("bar: action %q button=%d zone=%s [%d, %d]", r.Command, r.Button, r.Zone, r.StartX, r.EndX)
	}

	if b.surface == nil {
		return
	}
	if err := b.surface.Present(b.renderer.Canvas().Snapshot()); err != nil {
		log.Error("bar: presenting canvas: %v", err)
	}
}

// HandleExpose re-presents the canvas without re-parsing.
func (b *Bar) HandleExpose() {
	log.Debug("bar: expose")
	b.Flush()
}

// HandleButtonPress routes a click at bar-relative x to the matching
// action region. It reports whether a command was dispatched.
func (b *Bar) HandleButtonPress(x, y int, btn markup.Button) bool {
	b.mu.Lock()
	log.Debug("bar: button press (x=%d, y=%d, button=%d)", x, y, btn)
	cmd, ok := b.renderer.Tracker().HitTest(x, btn)
	b.mu.Unlock()

	if !ok {
		log.Warn("bar: no matching input area found")
		return false
	}
	cmd = actions.Unescape(cmd)
	log.Debug("bar: dispatching %q", cmd)
	if b.dispatch != nil {
		b.dispatch.Dispatch(cmd)
	}
	return true
}

// OnTrayReport updates the tray slot count and forces a re-parse of the
// last input when it changed. The re-parse runs under the same lock so a
// concurrent Parse can never be overwritten by older text.
func (b *Bar) OnTrayReport(slots int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tray.Position == render.TrayNone || b.tray.Slots == slots {
		return
	}
	log.Debug("bar: tray report (%d slots)", slots)
	b.tray.Slots = slots
	b.renderer.SetTraySlots(slots)
	if b.parsed {
		b.parseLocked(b.prev, true)
	}
}

// Snapshot returns a copy of the current canvas.
func (b *Bar) Snapshot() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderer.Canvas().Snapshot()
}

// Regions returns the action regions of the last parse.
func (b *Bar) Regions() []actions.Region {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderer.Tracker().Regions()
}

// Close releases font resources.
func (b *Bar) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fonts.Close()
}
