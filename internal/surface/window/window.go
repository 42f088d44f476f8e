// ABOUTME: Desktop window surface built on fyne: shows the canvas at 1:1 pixels and reports clicks
// ABOUTME: Mouse buttons and scroll wheel are mapped to bar buttons in canvas pixel coordinates

package window

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/mauromedda/statusbar-go/internal/log"
	"github.com/mauromedda/statusbar-go/internal/markup"
)

// ClickFunc receives a press at canvas pixel coordinates.
type ClickFunc func(x, y int, btn markup.Button)

// Window is a fyne window showing the bar.
type Window struct {
	app   fyne.App
	win   fyne.Window
	layer *clickLayer
}

// New creates a fixed-size, unpadded window of w x h pixels titled title.
// The window is not shown until Run.
func New(app fyne.App, title string, w, h int, onClick ClickFunc) *Window {
	win := app.NewWindow(title)
	win.SetPadded(false)
	win.SetFixedSize(true)

	layer := newClickLayer(image.NewRGBA(image.Rect(0, 0, w, h)), func() float32 {
		return win.Canvas().Scale()
	}, onClick)
	win.SetContent(layer)
	win.Resize(layer.img.MinSize())

	return &Window{app: app, win: win, layer: layer}
}

// Present swaps in img on the fyne main goroutine.
func (w *Window) Present(img image.Image) error {
	fyne.Do(func() {
		w.layer.img.Image = img
		w.layer.img.Refresh()
	})
	return nil
}

// Run shows the window and blocks in the fyne event loop until Close or
// the window is closed by the user. It must be called from main.
func (w *Window) Run() {
	w.win.ShowAndRun()
}

// Close quits the fyne application.
func (w *Window) Close() error {
	fyne.Do(w.app.Quit)
	return nil
}

// clickLayer renders the bar image and turns pointer events into clicks.
type clickLayer struct {
	widget.BaseWidget

	img     *canvas.Image
	scale   func() float32
	onClick ClickFunc
}

var (
	_ desktop.Mouseable = (*clickLayer)(nil)
	_ fyne.Scrollable   = (*clickLayer)(nil)
)

func newClickLayer(initial image.Image, scale func() float32, onClick ClickFunc) *clickLayer {
	img := canvas.NewImageFromImage(initial)
	img.FillMode = canvas.ImageFillOriginal
	img.ScaleMode = canvas.ImageScalePixels

	l := &clickLayer{img: img, scale: scale, onClick: onClick}
	l.ExtendBaseWidget(l)
	return l
}

func (l *clickLayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(l.img)
}

func (l *clickLayer) MouseDown(ev *desktop.MouseEvent) {
	btn := markup.ButtonNone
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		btn = markup.ButtonLeft
	case desktop.MouseButtonTertiary:
		btn = markup.ButtonMiddle
	case desktop.MouseButtonSecondary:
		btn = markup.ButtonRight
	}
	if btn == markup.ButtonNone {
		log.Debug("window: ignoring mouse button %d", ev.Button)
		return
	}
	l.emit(ev.Position, btn)
}

func (l *clickLayer) MouseUp(*desktop.MouseEvent) {}

func (l *clickLayer) Scrolled(ev *fyne.ScrollEvent) {
	switch {
	case ev.Scrolled.DY > 0:
		l.emit(ev.Position, markup.ButtonScrollUp)
	case ev.Scrolled.DY < 0:
		l.emit(ev.Position, markup.ButtonScrollDown)
	}
}

func (l *clickLayer) emit(pos fyne.Position, btn markup.Button) {
	if l.onClick == nil {
		return
	}
	s := float32(1)
	if l.scale != nil {
		if v := l.scale(); v > 0 {
			s = v
		}
	}
	l.onClick(int(pos.X*s), int(pos.Y*s), btn)
}
