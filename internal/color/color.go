// ABOUTME: ARGB color value with hex parsing and hex/rgb string forms
// ABOUTME: Implements image/color.Color so values draw directly onto the canvas

package color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied 0xAARRGGBB value.
type Color uint32

// Common colors.
const (
	Black       Color = 0xff000000
	White       Color = 0xffffffff
	Transparent Color = 0x00000000
)

// New builds a Color from 8-bit channels.
func New(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Parse accepts "#rgb", "#rrggbb" and "#aarrggbb". Colors without an
// alpha channel are fully opaque.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return 0, fmt.Errorf("color %q: missing leading '#'", s)
	}

	alpha := uint8(0xff)
	hex := s
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[1:3], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("color %q: bad alpha: %w", s, err)
		}
		alpha = uint8(a)
		hex = "#" + s[3:]
	}

	if len(hex) != 4 && len(hex) != 7 {
		return 0, fmt.Errorf("color %q: expected 3, 6 or 8 hex digits", s)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return New(alpha, r, g, b), nil
}

// MustParse is Parse for compile-time constants; it panics on error.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseOr returns the parsed color, or fallback when s is empty or invalid.
func ParseOr(s string, fallback Color) Color {
	if s == "" {
		return fallback
	}
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c
}

// Value returns the raw ARGB value.
func (c Color) Value() uint32 { return uint32(c) }

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// Hex returns the "#aarrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// RGB returns the "#rrggbb" form, dropping alpha.
func (c Color) RGB() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// RGBA implements image/color.Color with alpha-premultiplied channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A())
	a |= a << 8
	r = uint32(c.R())
	r |= r << 8
	g = uint32(c.G())
	g |= g << 8
	b = uint32(c.B())
	b |= b << 8
	r = r * a / 0xffff
	g = g * a / 0xffff
	b = b * a / 0xffff
	return r, g, b, a
}
