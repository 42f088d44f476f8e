// ABOUTME: Per-parse render state: active zone, zone cursors, attributes, colors, preferred font
// ABOUTME: Replaced wholesale at the start of every parse

package render

import (
	"github.com/mauromedda/statusbar-go/internal/color"
	"github.com/mauromedda/statusbar-go/internal/markup"
)

// State is the mutable part of a parse. It is a value; Renderer.State
// returns a copy.
type State struct {
	Zone       markup.Zone
	Attrs      markup.Attribute
	Background color.Color
	Foreground color.Color
	Line       color.Color
	Font       int
	Glyphs     int

	cursors [3]int
}

// Cursor returns the cursor of zone. Left counts from the canvas origin,
// center from the run start, right from the right edge.
func (s State) Cursor(zone markup.Zone) int {
	return s.cursors[zone]
}

func (s *State) advance(zone markup.Zone, px int) {
	s.cursors[zone] += px
}

func initialState(l Layout) State {
	st := State{
		Zone:       markup.ZoneLeft,
		Background: l.Background,
		Foreground: l.Foreground,
		Line:       l.Line,
	}
	st.cursors[markup.ZoneLeft] = l.Left.Size
	st.cursors[markup.ZoneCenter] = 0
	st.cursors[markup.ZoneRight] = l.Right.Size
	if l.Tray.Position == TrayLeft {
		st.cursors[markup.ZoneLeft] += l.Tray.Reserved()
	}
	return st
}
