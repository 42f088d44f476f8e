// ABOUTME: Alignment-aware incremental renderer executing markup directives on a canvas
// ABOUTME: Center/right content is shifted left as glyphs arrive and action regions follow

package render

import (
	"errors"
	"image/color"
	"image/draw"

	"github.com/mauromedda/statusbar-go/internal/actions"
	"github.com/mauromedda/statusbar-go/internal/font"
	"github.com/mauromedda/statusbar-go/internal/log"
	"github.com/mauromedda/statusbar-go/internal/markup"
)

// Glyphs is the font collaborator.
type Glyphs interface {
	MatchChar(r rune) *font.Face
	CharWidth(f *font.Face, r rune) int
	SetPreferredFont(index int)
	AllocateColor(c color.Color)
	DrawChar(dst draw.Image, f *font.Face, x, y int, r rune)
}

// Renderer draws one parse at a time onto its canvas. It is not safe for
// concurrent use.
type Renderer struct {
	layout  Layout
	canvas  *Canvas
	glyphs  Glyphs
	tracker *actions.Tracker
	state   State
}

// NewRenderer returns a renderer with a canvas sized from l.
func NewRenderer(l Layout, g Glyphs) *Renderer {
	return &Renderer{
		layout: l,
		canvas: NewCanvas(l.Width, l.Height),
		glyphs: g,
		tracker: actions.NewTracker(actions.Geometry{
			Width:       l.Width,
			BorderLeft:  l.Left.Size,
			BorderRight: l.Right.Size,
		}),
		state: initialState(l),
	}
}

// Canvas returns the drawing target.
func (r *Renderer) Canvas() *Canvas { return r.canvas }

// Tracker returns the action regions of the last parse.
func (r *Renderer) Tracker() *actions.Tracker { return r.tracker }

// State returns a copy of the current render state.
func (r *Renderer) State() State { return r.state }

// Layout returns the layout in use.
func (r *Renderer) Layout() Layout { return r.layout }

// SetTraySlots updates the number of reserved tray slots for the next parse.
func (r *Renderer) SetTraySlots(n int) {
	r.layout.Tray.Slots = max(n, 0)
}

// Render runs a complete parse of text: background, tray reservation,
// every directive, right tray gap, borders. Interpreter errors are logged
// and returned; they never stop drawing.
func (r *Renderer) Render(text string) []error {
	r.Begin()

	var errs []error
	for d, err := range markup.Interpret(text) {
		if err != nil {
			logParseError(err)
			errs = append(errs, err)
			continue
		}
		r.Apply(d)
	}

	r.End()
	return errs
}

// Begin resets state and clears the canvas for a new parse.
func (r *Renderer) Begin() {
	r.state = initialState(r.layout)
	r.tracker.Reset()
	r.glyphs.SetPreferredFont(0)
	r.canvas.Fill(0, 0, r.layout.Width, r.layout.Height, r.layout.Background)
}

// End shifts in a right aligned tray gap and draws the borders.
func (r *Renderer) End() {
	if r.layout.Tray.Position == TrayRight {
		if gap := r.layout.Tray.Reserved(); gap > 0 {
			prev := r.state.Zone
			r.state.Zone = markup.ZoneRight
			r.shift(r.state.Cursor(markup.ZoneRight), gap)
			r.state.Zone = prev
		}
	}
	r.drawBorders()
}

// Apply executes a single directive.
func (r *Renderer) Apply(d markup.Directive) {
	switch d := d.(type) {
	case markup.AlignmentChange:
		if d.Zone != r.state.Zone {
			log.Debug("render: alignment %s -> %s", r.state.Zone, d.Zone)
			r.state.Zone = d.Zone
		}

	case markup.AttributeSet:
		r.state.Attrs |= d.Attr
	case markup.AttributeUnset:
		r.state.Attrs &^= d.Attr
	case markup.AttributeToggle:
		r.state.Attrs ^= d.Attr

	case markup.ColorChange:
		r.applyColor(d)

	case markup.FontChange:
		r.state.Font = d.Index
		r.glyphs.SetPreferredFont(d.Index)

	case markup.PixelOffset:
		r.offset(d.Delta)

	case markup.ActionOpen:
		r.tracker.Open(d.Button, r.state.Zone, d.Command, r.state.Cursor(r.state.Zone))

	case markup.ActionClose:
		r.tracker.Close(d.Button, r.state.Cursor(r.state.Zone))

	case markup.TextRun:
		r.drawCharacter(d.Rune)
	}
}

func (r *Renderer) applyColor(d markup.ColorChange) {
	switch d.Target {
	case markup.TargetBackground:
		r.state.Background = d.Color
		if d.Reset {
			r.state.Background = r.layout.Background
		}
	case markup.TargetForeground:
		r.state.Foreground = d.Color
		if d.Reset {
			r.state.Foreground = r.layout.Foreground
		}
	case markup.TargetLine:
		r.state.Line = d.Color
		if d.Reset {
			r.state.Line = r.layout.Line
		}
	}
}

func (r *Renderer) offset(px int) {
	zone := r.state.Zone
	if px > 0 {
		r.shift(r.state.Cursor(zone), px)
	}
	r.state.advance(zone, px)
}

func (r *Renderer) drawCharacter(ch rune) {
	f := r.glyphs.MatchChar(ch)
	if f == nil {
		log.Warn("render: no suitable font found for character %U", ch)
		return
	}

	w := r.glyphs.CharWidth(f, ch)
	if r.state.Zone == markup.ZoneCenter && w%2 != 0 {
		w++
	}

	x := r.shift(r.state.Cursor(r.state.Zone), w)
	y := r.layout.VerticalMid + f.Height/2 - f.Descent + f.OffsetY

	r.glyphs.AllocateColor(r.state.Foreground)
	r.glyphs.DrawChar(r.canvas.Image(), f, x, y, ch)
	r.drawLines(x, w)

	r.state.advance(r.state.Zone, w)
	r.state.Glyphs++
}

// shift makes room for w pixels in the active zone given the zone cursor
// x, clears the new cell, and returns the x where it starts.
func (r *Renderer) shift(x, w int) int {
	delta := w
	width := r.layout.Width

	switch r.state.Zone {
	case markup.ZoneCenter:
		base := (width-r.layout.Right.Size)/2 + r.layout.Left.Size
		r.canvas.CopyArea(base-x/2, 0, base-(x+w)/2, 0, x, r.layout.Height)
		x = base - (x+w)/2 + x
		delta /= 2
	case markup.ZoneRight:
		r.canvas.CopyArea(width-x, 0, width-x-w, 0, x, r.layout.Height)
		x = width - w - r.layout.Right.Size
	}

	r.canvas.Fill(x, 0, w, r.layout.Height, r.state.Background)
	r.tracker.Translate(r.state.Zone, delta)
	return x
}

func (r *Renderer) drawLines(x, w int) {
	lh := r.layout.LineHeight
	if lh <= 0 {
		return
	}
	if r.state.Attrs&markup.AttrOverline != 0 {
		r.canvas.Fill(x, r.layout.Top.Size, w, lh, r.state.Line)
	}
	if r.state.Attrs&markup.AttrUnderline != 0 {
		r.canvas.Fill(x, r.layout.Height-r.layout.Bottom.Size-lh, w, lh, r.state.Line)
	}
}

func (r *Renderer) drawBorders() {
	l := r.layout
	inner := l.Width - l.Left.Size - l.Right.Size
	r.canvas.Fill(l.Left.Size, 0, inner, l.Top.Size, l.Top.Color)
	r.canvas.Fill(l.Left.Size, l.Height-l.Bottom.Size, inner, l.Bottom.Size, l.Bottom.Color)
	r.canvas.Fill(0, 0, l.Left.Size, l.Height, l.Left.Color)
	r.canvas.Fill(l.Width-l.Right.Size, 0, l.Right.Size, l.Height, l.Right.Color)
}

func logParseError(err error) {
	var tokErr *markup.UnrecognizedTokenError
	if errors.As(err, &tokErr) {
		log.Error("render: unrecognized syntax token %q", tokErr.Token)
		return
	}
	log.Warn("render: %v", err)
}
