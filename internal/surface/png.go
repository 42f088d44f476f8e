// ABOUTME: PNG file surface: atomically rewrites an image file on every flush
// ABOUTME: Writes to a temp file in the same directory and renames it over the target

package surface

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
)

// PNG writes each frame to a file.
type PNG struct {
	mu   sync.Mutex
	path string
}

// NewPNG returns a surface writing to path.
func NewPNG(path string) *PNG {
	return &PNG{path: path}
}

// Path returns the output file.
func (p *PNG) Path() string { return p.path }

// Present encodes img and replaces the output file.
func (p *PNG) Present(img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".statusbar-*.png")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("replacing %s: %w", p.path, err)
	}
	return nil
}

// Close is a no-op; the last frame stays on disk.
func (p *PNG) Close() error { return nil }
