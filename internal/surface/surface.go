// ABOUTME: Display surfaces that receive the finished bar canvas after every flush
// ABOUTME: Discard drops frames; Terminal and PNG live in this package, the desktop window in window/

package surface

import (
	"image"
	"sync"
)

// Surface presents rendered frames.
type Surface interface {
	Present(img image.Image) error
	Close() error
}

// Discard accepts and drops every frame, keeping only the most recent one.
type Discard struct {
	mu     sync.Mutex
	last   image.Image
	frames int
}

// Present records img.
func (d *Discard) Present(img image.Image) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = img
	d.frames++
	return nil
}

// Last returns the most recent frame and the number of frames seen.
func (d *Discard) Last() (image.Image, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.frames
}

// Close is a no-op.
func (d *Discard) Close() error { return nil }
