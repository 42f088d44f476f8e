// ABOUTME: Terminal surface: redraws the bar in place using the detected image protocol
// ABOUTME: Width follows the terminal size from x/term unless fixed columns are given

package surface

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	defaultColumns = 80
	kittyImageID   = 7431
)

// Terminal draws frames into a terminal stream.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	proto Protocol
	cols  int
	lines int
}

// NewTerminal returns a terminal surface. cols <= 0 means follow the
// terminal width.
func NewTerminal(w io.Writer, proto Protocol, cols int) *Terminal {
	return &Terminal{w: w, proto: proto, cols: cols}
}

// Protocol returns the protocol in use.
func (t *Terminal) Protocol() Protocol { return t.proto }

// Present draws img, replacing the previous frame.
func (t *Terminal) Present(img image.Image) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols := t.columns()
	lines, err := t.encode(img, cols)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	var b strings.Builder
	if t.lines > 0 {
		fmt.Fprintf(&b, "\x1b[%dF", t.lines)
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\x1b[K\r\n")
	}
	if _, err := io.WriteString(t.w, b.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	t.lines = len(lines)
	return nil
}

// Close leaves the cursor below the last frame.
func (t *Terminal) Close() error {
	return nil
}

func (t *Terminal) encode(img image.Image, cols int) ([]string, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, nil
	}

	switch t.proto {
	case ProtoKitty, ProtoITerm2:
		data, err := EncodePNG(img)
		if err != nil {
			return nil, err
		}
		rows := max(1, (cols*b.Dy()/b.Dx()+1)/2)
		var seq string
		if t.proto == ProtoKitty {
			seq = EncodeKitty(data, kittyImageID, cols, rows)
		} else {
			seq = EncodeITerm2(data, cols)
		}
		lines := make([]string, rows)
		lines[0] = seq
		return lines, nil
	default:
		w, h := FitWidth(img, cols, 2)
		return RenderHalfBlock(Scale(img, w, h)), nil
	}
}

func (t *Terminal) columns() int {
	if t.cols > 0 {
		return t.cols
	}
	if f, ok := t.w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultColumns
}
