// ABOUTME: Frame encoders for terminals: Kitty chunked APC, iTerm2 OSC 1337, ANSI half blocks
// ABOUTME: Half blocks pack two pixel rows per text row using fg/bg true color

package surface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
)

const kittyChunkSize = 4096 // Max base64 chars per chunk

// EncodeKitty encodes PNG data as Kitty graphics escapes spanning cols x rows
// cells. The image id lets later frames replace earlier ones in place.
func EncodeKitty(pngData []byte, id, cols, rows int) string {
	if len(pngData) == 0 {
		return ""
	}

	encoded := base64.StdEncoding.EncodeToString(pngData)

	var b strings.Builder
	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))
		more := 1
		if end == len(encoded) {
			more = 0
		}
		if i == 0 {
			fmt.Fprintf(&b, "\x1b_Ga=T,f=100,q=2,i=%d,c=%d,r=%d,m=%d;%s\x1b\\", id, cols, rows, more, encoded[i:end])
		} else {
			fmt.Fprintf(&b, "\x1b_Gm=%d;%s\x1b\\", more, encoded[i:end])
		}
	}
	return b.String()
}

// EncodeITerm2 encodes image data as an iTerm2 inline image of width cells.
func EncodeITerm2(data []byte, cols int) string {
	if len(data) == 0 {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("\x1b]1337;File=inline=1;size=%d;width=%d;preserveAspectRatio=1:%s\a", len(data), cols, encoded)
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Scale resizes img to exactly w x h pixels.
func Scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// FitWidth returns the size of img scaled down to at most maxCols pixels
// wide, keeping the aspect ratio and at least minH pixels of height.
func FitWidth(img image.Image, maxCols, minH int) (int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || maxCols <= 0 {
		return 0, 0
	}
	if w > maxCols {
		h = h * maxCols / w
		w = maxCols
	}
	return w, max(h, minH, 1)
}

// RenderHalfBlock converts img to ANSI art using the lower-half block
// character. For every two pixel rows the top pixel is the cell background
// and the bottom pixel the foreground. img is drawn at its own size.
func RenderHalfBlock(img image.Image) []string {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}

	var lines []string
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			tr, tg, tb := rgbAt(img, x, y)
			var br, bg, bb uint8
			if y+1 < b.Max.Y {
				br, bg, bb = rgbAt(img, x, y+1)
			}
			fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm▄", tr, tg, tb, br, bg, bb)
		}
		sb.WriteString("\x1b[0m")
		lines = append(lines, sb.String())
	}
	return lines
}

// rgbAt extracts the 8-bit RGB components of the pixel at (x, y).
func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
