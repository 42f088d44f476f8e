// ABOUTME: Directive vocabulary produced by the markup interpreter
// ABOUTME: Zones, attribute flags, mouse buttons, color targets, and the directive variants

package markup

import (
	"fmt"

	"github.com/mauromedda/statusbar-go/internal/color"
)

// Zone is one of the three alignment regions sharing the canvas.
type Zone int

const (
	ZoneLeft Zone = iota
	ZoneCenter
	ZoneRight
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneLeft:
		return "left"
	case ZoneCenter:
		return "center"
	case ZoneRight:
		return "right"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// Attribute is a text decoration flag.
type Attribute uint8

const (
	AttrOverline Attribute = 1 << iota
	AttrUnderline
)

// String returns the attribute letter used in markup.
func (a Attribute) String() string {
	switch a {
	case AttrOverline:
		return "o"
	case AttrUnderline:
		return "u"
	default:
		return fmt.Sprintf("attr(%d)", uint8(a))
	}
}

// Button is an X11-style mouse button number.
type Button int

const (
	ButtonNone       Button = 0
	ButtonLeft       Button = 1
	ButtonMiddle     Button = 2
	ButtonRight      Button = 3
	ButtonScrollUp   Button = 4
	ButtonScrollDown Button = 5
)

// Valid reports whether b can be bound to an action block.
func (b Button) Valid() bool {
	return b >= ButtonLeft && b <= ButtonScrollDown
}

// ColorTarget selects which drawable a color change applies to.
type ColorTarget int

const (
	TargetBackground ColorTarget = iota
	TargetForeground
	// TargetLine covers both overline and underline.
	TargetLine
)

// String returns the markup letter for the target.
func (t ColorTarget) String() string {
	switch t {
	case TargetBackground:
		return "B"
	case TargetForeground:
		return "F"
	case TargetLine:
		return "U"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// Directive is one parsed drawing instruction. The set of implementations is
// closed; consumers switch on the concrete type.
type Directive interface {
	directive()
}

// AlignmentChange switches the active zone.
type AlignmentChange struct{ Zone Zone }

// AttributeSet turns a decoration on.
type AttributeSet struct{ Attr Attribute }

// AttributeUnset turns a decoration off.
type AttributeUnset struct{ Attr Attribute }

// AttributeToggle flips a decoration.
type AttributeToggle struct{ Attr Attribute }

// ColorChange sets the color of a target. Reset restores the configured
// default and Color is ignored.
type ColorChange struct {
	Target ColorTarget
	Color  color.Color
	Reset  bool
}

// FontChange selects a preferred font by 1-based index; 0 means automatic.
type FontChange struct{ Index int }

// PixelOffset moves the cursor by Delta device pixels.
type PixelOffset struct{ Delta int }

// ActionOpen starts a clickable region bound to Button.
type ActionOpen struct {
	Button  Button
	Command string
}

// ActionClose ends the most recent open region for Button.
type ActionClose struct{ Button Button }

// TextRun draws a single codepoint.
type TextRun struct{ Rune rune }

func (AlignmentChange) directive() {}
func (AttributeSet) directive()    {}
func (AttributeUnset) directive()  {}
func (AttributeToggle) directive() {}
func (ColorChange) directive()     {}
func (FontChange) directive()      {}
func (PixelOffset) directive()     {}
func (ActionOpen) directive()      {}
func (ActionClose) directive()     {}
func (TextRun) directive()         {}
