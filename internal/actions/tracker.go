// ABOUTME: Clickable action regions: open, LIFO close per button, zone translation, hit testing
// ABOUTME: Center/right regions are re-based on close since their final position depends on later glyphs

package actions

import (
	"strings"

	"github.com/mauromedda/statusbar-go/internal/log"
	"github.com/mauromedda/statusbar-go/internal/markup"
)

// Geometry is the horizontal canvas layout the tracker needs to finalize
// center and right aligned regions.
type Geometry struct {
	Width       int
	BorderLeft  int
	BorderRight int
}

// CenterBase is the anchor x for center aligned content.
func (g Geometry) CenterBase() int {
	return (g.Width-g.BorderRight)/2 + g.BorderLeft
}

// RightBase is the anchor x for right aligned content.
func (g Geometry) RightBase() int {
	return g.Width - g.BorderRight
}

// Region is one clickable area. EndX is meaningless while Open is true.
type Region struct {
	Button  markup.Button
	Zone    markup.Zone
	Command string
	StartX  int
	EndX    int
	Open    bool
}

// Contains reports whether x lies inside the closed interval [StartX, EndX].
func (r Region) Contains(x int) bool {
	return x >= r.StartX && x <= r.EndX
}

// Tracker holds the regions produced by a single parse. It is not safe for
// concurrent use; the bar lock guards it.
type Tracker struct {
	geom    Geometry
	regions []Region
}

// NewTracker returns an empty tracker for the given canvas geometry.
func NewTracker(g Geometry) *Tracker {
	return &Tracker{geom: g}
}

// Geometry returns the layout used for finalization.
func (t *Tracker) Geometry() Geometry { return t.geom }

// Reset drops every region. Called at the start of each parse.
func (t *Tracker) Reset() {
	t.regions = t.regions[:0]
}

// Len returns the number of tracked regions.
func (t *Tracker) Len() int { return len(t.regions) }

// Regions returns a copy of the tracked regions in insertion order.
func (t *Tracker) Regions() []Region {
	out := make([]Region, len(t.regions))
	copy(out, t.regions)
	return out
}

// Open pushes a new open region. Opening a second region for a button that
// already has one open is allowed; Close always picks the most recent.
func (t *Tracker) Open(btn markup.Button, zone markup.Zone, command string, startX int) {
	if btn == markup.ButtonNone {
		btn = markup.ButtonLeft
	}
	log.Debug("actions: open(button=%d, zone=%s, start=%d, cmd=%q)", btn, zone, startX, command)
	t.regions = append(t.regions, Region{
		Button:  btn,
		Zone:    zone,
		Command: Escape(command),
		StartX:  startX,
		Open:    true,
	})
}

// Close finalizes the most recently opened region still open for btn.
// cursor is the zone cursor at the close point. It reports whether a region
// was closed.
func (t *Tracker) Close(btn markup.Button, cursor int) bool {
	for i := len(t.regions) - 1; i >= 0; i-- {
		r := &t.regions[i]
		if !r.Open || r.Button != btn {
			continue
		}
		r.Open = false

		switch r.Zone {
		case markup.ZoneLeft:
			r.EndX = cursor
		case markup.ZoneCenter:
			width := cursor - r.StartX
			r.StartX = t.geom.CenterBase() - width/2 + r.StartX/2
			r.EndX = r.StartX + width
		case markup.ZoneRight:
			base := t.geom.RightBase()
			r.StartX = base - cursor + r.StartX
			r.EndX = base
		}
		log.Debug("actions: close(button=%d) -> [%d, %d]", btn, r.StartX, r.EndX)
		return true
	}
	log.Debug("actions: close(button=%d) without open region", btn)
	return false
}

// Translate shifts every closed region of zone by -delta. Left aligned
// content never moves, so the left zone is ignored.
func (t *Tracker) Translate(zone markup.Zone, delta int) {
	if zone == markup.ZoneLeft || delta == 0 {
		return
	}
	for i := range t.regions {
		r := &t.regions[i]
		if r.Open || r.Zone != zone {
			continue
		}
		r.StartX -= delta
		r.EndX -= delta
	}
}

// HitTest returns the command of the first closed region, in insertion
// order, bound to btn and containing x. Unclosed regions are skipped.
func (t *Tracker) HitTest(x int, btn markup.Button) (string, bool) {
	for _, r := range t.regions {
		switch {
		case r.Open:
			log.Warn("actions: ignoring unclosed action block %q", r.Command)
			continue
		case r.Button != btn:
			continue
		case !r.Contains(x):
			log.Debug("actions: %q does not contain x=%d ([%d, %d])", r.Command, x, r.StartX, r.EndX)
			continue
		}
		return r.Command, true
	}
	return "", false
}

// Unclosed returns the regions still open.
func (t *Tracker) Unclosed() []Region {
	var out []Region
	for _, r := range t.regions {
		if r.Open {
			out = append(out, r)
		}
	}
	return out
}

// Escape protects ':' so a stored command cannot be mistaken for the end of
// an action tag.
func Escape(cmd string) string {
	return strings.ReplaceAll(cmd, ":", `\:`)
}

// Unescape reverses Escape.
func Unescape(cmd string) string {
	return strings.ReplaceAll(cmd, `\:`, ":")
}
