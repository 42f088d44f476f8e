// ABOUTME: Tests for the font manager and pattern parsing
// ABOUTME: Uses the built-in bitmap face and the embedded Go fonts

package font

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParsePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Pattern
		wantErr bool
	}{
		{"fixed", Pattern{Name: "fixed", Size: DefaultSize}, false},
		{"go:size=14", Pattern{Name: "go", Size: 14}, false},
		{"go-mono:antialias=true:pixelsize=9", Pattern{Name: "go-mono", Size: 9}, false},
		{"go:size=abc", Pattern{}, true},
		{"go:size=-2", Pattern{}, true},
		{"", Pattern{}, true},
		{":size=10", Pattern{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePattern(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePattern(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePattern(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		pattern string
		offset  int
	}{
		{"fixed", "fixed", 0},
		{"go:size=10;2", "go:size=10", 2},
		{"go;-3", "go", -3},
		{"go;x", "go", 0},
	}
	for _, tt := range tests {
		p, off := ParseEntry(tt.in)
		if p != tt.pattern || off != tt.offset {
			t.Errorf("ParseEntry(%q) = (%q, %d), want (%q, %d)", tt.in, p, off, tt.pattern, tt.offset)
		}
	}
}

func TestLoad_Fixed(t *testing.T) {
	t.Parallel()

	m := NewManager()
	defer m.Close()
	if !m.Load("fixed", 1, 2) {
		t.Fatal("Load(fixed) failed")
	}
	f := m.MatchChar('a')
	if f == nil {
		t.Fatal("MatchChar('a') = nil")
	}
	if f.Height != 13 || f.Descent != 2 || f.OffsetY != 2 {
		t.Errorf("metrics = h%d d%d o%d, want h13 d2 o2", f.Height, f.Descent, f.OffsetY)
	}
	if w := m.CharWidth(f, 'a'); w != 7 {
		t.Errorf("CharWidth = %d, want 7", w)
	}
	if m.MatchChar('中') != nil {
		t.Error("bitmap face should not cover CJK")
	}
}

func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	m := NewManager()
	for _, p := range []string{"nosuchfont", "/does/not/exist.ttf", "go:size=0"} {
		if m.Load(p, 1, 0) {
			t.Errorf("Load(%q) succeeded, want failure", p)
		}
	}
	if len(m.Faces()) != 0 {
		t.Errorf("Faces = %d, want 0", len(m.Faces()))
	}
}

func TestLoad_FileFont(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	defer m.Close()
	if !m.Load(path+":size=16", 1, 0) {
		t.Fatal("Load(file) failed")
	}
	f := m.Faces()[0]
	if f.Height <= 0 || f.Ascent <= 0 {
		t.Errorf("metrics not populated: %+v", f)
	}
	if !f.Covers('A') {
		t.Error("Go Regular should cover 'A'")
	}
	if f.Covers('\U0001F600') {
		t.Error("Go Regular should not cover emoji")
	}
}

func TestMatchChar_Preferred(t *testing.T) {
	t.Parallel()

	m := NewManager()
	defer m.Close()
	m.Load("fixed", 1, 0)
	m.Load("go-mono:size=10", 2, 0)

	if f := m.MatchChar('x'); f.Index != 1 {
		t.Errorf("auto match index = %d, want 1", f.Index)
	}

	m.SetPreferredFont(2)
	if f := m.MatchChar('x'); f.Index != 2 {
		t.Errorf("preferred match index = %d, want 2", f.Index)
	}

	// Restrict the bitmap face to lowercase so digits fall through.
	m.Faces()[0].ranges = []basicfont.Range{{Low: 'a', High: 'z' + 1}}
	m.SetPreferredFont(1)
	if f := m.MatchChar('7'); f == nil || f.Index != 2 {
		t.Errorf("fallback match = %+v, want index 2", f)
	}
	if f := m.MatchChar('q'); f == nil || f.Index != 1 {
		t.Errorf("preferred match = %+v, want index 1", f)
	}

	m.SetPreferredFont(9)
	if m.Preferred() != 0 {
		t.Errorf("Preferred = %d, want 0 for unknown index", m.Preferred())
	}
}

func TestLoadList(t *testing.T) {
	t.Parallel()

	m := NewManager()
	defer m.Close()
	if err := m.LoadList([]string{"missing-font", "go:size=11;3"}); err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	faces := m.Faces()
	if len(faces) != 1 || faces[0].Index != 2 || faces[0].OffsetY != 3 {
		t.Errorf("faces = %+v", faces)
	}
}

func TestLoadList_Fallback(t *testing.T) {
	t.Parallel()

	m := NewManager()
	defer m.Close()
	if err := m.LoadList([]string{"missing-font"}); err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	if len(m.Faces()) != 1 || m.Faces()[0].Name != Fallback {
		t.Errorf("expected fallback face, got %+v", m.Faces())
	}
}

func TestHeight(t *testing.T) {
	t.Parallel()

	m := NewManager()
	defer m.Close()
	if got := m.Height(); got != 0 {
		t.Errorf("Height() with no faces = %d; want 0", got)
	}
	if err := m.LoadList([]string{"fixed", "go:size=24"}); err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	want := 0
	for _, f := range m.Faces() {
		want = max(want, f.Height)
	}
	if got := m.Height(); got != want || got <= 13 {
		t.Errorf("Height() = %d; want tallest face %d", got, want)
	}
}

func TestDrawChar(t *testing.T) {
	t.Parallel()

	m := NewManager()
	defer m.Close()
	m.Load("fixed", 1, 0)
	f := m.MatchChar('#')

	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	m.AllocateColor(color.RGBA{R: 255, A: 255})
	m.DrawChar(img, f, 2, 15, '#')

	painted := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if img.RGBAAt(x, y).R == 255 {
				painted++
				if x < 2 || x >= 2+7 {
					t.Fatalf("pixel outside glyph cell at x=%d", x)
				}
			}
		}
	}
	if painted == 0 {
		t.Error("DrawChar painted nothing")
	}
}
