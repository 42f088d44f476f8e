// ABOUTME: Fixed-size RGBA pixel canvas with fill and overlapping copy primitives
// ABOUTME: The renderer draws here; surfaces receive snapshots of the finished image

package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Canvas is the off-screen drawable for one bar.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a transparent canvas of w x h pixels.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Bounds().Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

// Fill paints the rectangle x,y,w,h with col, replacing existing pixels.
// Empty or negative sizes are a no-op.
func (c *Canvas) Fill(x, y, w, h int, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(x, y, x+w, y+h)
	xdraw.Draw(c.img, r, image.NewUniform(col), image.Point{}, xdraw.Src)
}

// CopyArea copies the w x h block at (srcX, srcY) to (dstX, dstY). Source
// and destination may overlap.
func (c *Canvas) CopyArea(srcX, srcY, dstX, dstY, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	sr := image.Rect(srcX, srcY, srcX+w, srcY+h)
	xdraw.Copy(c.img, image.Pt(dstX, dstY), c.img, sr, xdraw.Src, nil)
}

// Image returns the backing image. Callers must not retain it across a
// parse; use Snapshot for that.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}
