// ABOUTME: Font manager: loads faces, picks a face per codepoint, measures and draws glyphs
// ABOUTME: Backed by x/image opentype faces (Go fonts or files) and the basicfont bitmap face

package font

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/mauromedda/statusbar-go/internal/log"
)

// ErrNoFonts is returned when neither the configured fonts nor the fallback
// could be loaded.
var ErrNoFonts = errors.New("font: unable to load fonts")

// Face is one loaded font with the metrics the renderer needs.
type Face struct {
	Name    string
	Index   int // 1-based position in the configured list
	Height  int
	Ascent  int
	Descent int
	OffsetY int

	face   xfont.Face
	sfnt   *sfnt.Font
	buf    sfnt.Buffer
	ranges []basicfont.Range
	cell   int
}

// Covers reports whether the face has a real glyph for r.
func (f *Face) Covers(r rune) bool {
	if f.sfnt != nil {
		idx, err := f.sfnt.GlyphIndex(&f.buf, r)
		return err == nil && idx != 0
	}
	for _, rg := range f.ranges {
		if r >= rg.Low && r < rg.High {
			return true
		}
	}
	return false
}

// Advance returns the horizontal advance of r in whole pixels.
func (f *Face) Advance(r rune) int {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		return runewidth.RuneWidth(r) * f.cell
	}
	return adv.Round()
}

func (f *Face) close() {
	if f.face != nil {
		_ = f.face.Close()
	}
}

// Manager owns the loaded faces and the current drawing color. It is not
// safe for concurrent use; the bar lock serializes access.
type Manager struct {
	faces     []*Face
	preferred int
	src       *image.Uniform
	colors    map[color.Color]*image.Uniform
}

// NewManager returns a manager with no faces loaded.
func NewManager() *Manager {
	return &Manager{
		src:    image.NewUniform(color.White),
		colors: make(map[color.Color]*image.Uniform),
	}
}

// Load opens the face described by pattern and registers it under index.
// It reports whether loading succeeded; failures are logged.
func (m *Manager) Load(pattern string, index, offsetY int) bool {
	f, err := open(pattern)
	if err != nil {
		log.Warn("font: unable to load %q: %v", pattern, err)
		return false
	}
	f.Index = index
	f.OffsetY = offsetY

	log.Debug("font: loaded %q as #%d (height=%d ascent=%d descent=%d offset=%d)",
		f.Name, index, f.Height, f.Ascent, f.Descent, offsetY)
	m.faces = append(m.faces, f)
	return true
}

// LoadList loads "pattern;offset" entries, numbering them from 1. When none
// load, the fallback bitmap font is tried before giving up.
func (m *Manager) LoadList(entries []string) error {
	loaded := false
	for i, entry := range entries {
		pattern, offset := ParseEntry(entry)
		if m.Load(pattern, i+1, offset) {
			loaded = true
		}
	}
	if loaded {
		return nil
	}

	log.Warn("font: loading fallback font")
	if !m.Load(Fallback, len(entries)+1, 0) {
		return ErrNoFonts
	}
	return nil
}

// Faces returns the loaded faces in load order.
func (m *Manager) Faces() []*Face { return m.faces }

// Height returns the tallest loaded face height.
func (m *Manager) Height() int {
	h := 0
	for _, f := range m.faces {
		h = max(h, f.Height)
	}
	return h
}

// SetPreferredFont selects the face tried first by MatchChar. Index 0 or a
// negative value restores automatic selection.
func (m *Manager) SetPreferredFont(index int) {
	if index > 0 && m.byIndex(index) == nil {
		log.Warn("font: no font with index %d, using automatic selection", index)
		index = 0
	}
	m.preferred = max(index, 0)
}

// Preferred returns the preferred font index, 0 meaning automatic.
func (m *Manager) Preferred() int { return m.preferred }

// MatchChar returns the preferred face when it covers r, otherwise the first
// loaded face that does. Nil means no face can draw r.
func (m *Manager) MatchChar(r rune) *Face {
	if f := m.byIndex(m.preferred); f != nil && f.Covers(r) {
		return f
	}
	for _, f := range m.faces {
		if f.Covers(r) {
			return f
		}
	}
	return nil
}

// CharWidth returns the advance of r in f.
func (m *Manager) CharWidth(f *Face, r rune) int {
	if f == nil {
		return 0
	}
	return f.Advance(r)
}

// AllocateColor makes c the color used by subsequent DrawChar calls.
func (m *Manager) AllocateColor(c color.Color) {
	u, ok := m.colors[c]
	if !ok {
		u = image.NewUniform(c)
		m.colors[c] = u
	}
	m.src = u
}

// DrawChar draws r with its baseline origin at (x, y).
func (m *Manager) DrawChar(dst draw.Image, f *Face, x, y int, r rune) {
	if f == nil {
		return
	}
	d := xfont.Drawer{
		Dst:  dst,
		Src:  m.src,
		Face: f.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(string(r))
}

// Close releases every loaded face.
func (m *Manager) Close() {
	for _, f := range m.faces {
		f.close()
	}
	m.faces = nil
	m.preferred = 0
}

func (m *Manager) byIndex(index int) *Face {
	if index <= 0 {
		return nil
	}
	for _, f := range m.faces {
		if f.Index == index {
			return f
		}
	}
	return nil
}

func open(pattern string) (*Face, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(p.Name) {
	case "fixed", "basic":
		return bitmapFace(p.Name), nil
	case "go", "go-regular":
		return vectorFace(p, goregular.TTF)
	case "go-mono", "monospace":
		return vectorFace(p, gomono.TTF)
	case "go-bold":
		return vectorFace(p, gobold.TTF)
	}

	ext := strings.ToLower(p.Name)
	if !strings.HasSuffix(ext, ".ttf") && !strings.HasSuffix(ext, ".otf") {
		return nil, fmt.Errorf("unknown font %q", p.Name)
	}
	data, err := os.ReadFile(p.Name)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}
	return vectorFace(p, data)
}

func bitmapFace(name string) *Face {
	bf := basicfont.Face7x13
	return &Face{
		Name:    name,
		Height:  bf.Height,
		Ascent:  bf.Ascent,
		Descent: bf.Descent,
		face:    bf,
		ranges:  bf.Ranges,
		cell:    bf.Advance,
	}
}

func vectorFace(p Pattern, data []byte) (*Face, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %q: %w", p.Name, err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    p.Size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face %q: %w", p.Name, err)
	}

	metrics := face.Metrics()
	f := &Face{
		Name:    p.Name,
		Height:  metrics.Height.Ceil(),
		Ascent:  metrics.Ascent.Ceil(),
		Descent: metrics.Descent.Ceil(),
		face:    face,
		sfnt:    otf,
	}
	if adv, ok := face.GlyphAdvance('0'); ok {
		f.cell = adv.Round()
	}
	return f, nil
}
