// ABOUTME: Static drawing layout consumed by the renderer: size, borders, defaults, tray reservation
// ABOUTME: Built once by the bar bootstrap; only the tray slot count changes afterwards

package render

import (
	"github.com/mauromedda/statusbar-go/internal/color"
)

// Border is the size and color of one canvas edge.
type Border struct {
	Size  int
	Color color.Color
}

// TrayPosition is where tray icons are reserved.
type TrayPosition int

const (
	TrayNone TrayPosition = iota
	TrayLeft
	TrayRight
)

func (p TrayPosition) String() string {
	switch p {
	case TrayLeft:
		return "left"
	case TrayRight:
		return "right"
	default:
		return "none"
	}
}

// Tray describes the horizontal space reserved for tray icons.
type Tray struct {
	Position TrayPosition
	Slots    int
	Width    int
	Spacing  int
}

// Reserved returns the width kept free for the tray, 0 when it is empty.
func (t Tray) Reserved() int {
	if t.Position == TrayNone || t.Slots <= 0 {
		return 0
	}
	return (t.Width+t.Spacing)*t.Slots + t.Spacing
}

// Layout is everything the renderer needs to know about the bar.
type Layout struct {
	Width       int
	Height      int
	VerticalMid int
	LineHeight  int

	Background color.Color
	Foreground color.Color
	Line       color.Color

	Top    Border
	Bottom Border
	Left   Border
	Right  Border

	Tray Tray
}
