// ABOUTME: Font pattern parsing: built-in names or .ttf/.otf paths with an optional :size=N suffix
// ABOUTME: Also parses bar font list entries of the form "pattern;offset"

package font

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSize is the point size used when a pattern carries no size.
const DefaultSize = 12.0

// Fallback is the pattern loaded when no configured font could be loaded.
const Fallback = "fixed"

// Pattern is a parsed font request.
type Pattern struct {
	Name string
	Size float64
}

// ParsePattern splits "name[:key=value...]". Only the size key is
// understood; other keys are ignored.
func ParsePattern(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Pattern{}, fmt.Errorf("empty font pattern")
	}

	parts := strings.Split(s, ":")
	p := Pattern{Name: parts[0], Size: DefaultSize}
	if p.Name == "" {
		return Pattern{}, fmt.Errorf("font pattern %q: missing name", s)
	}
	for _, kv := range parts[1:] {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || key != "size" && key != "pixelsize" {
			continue
		}
		size, err := strconv.ParseFloat(val, 64)
		if err != nil || size <= 0 {
			return Pattern{}, fmt.Errorf("font pattern %q: invalid size %q", s, val)
		}
		p.Size = size
	}
	return p, nil
}

// ParseEntry splits a font list entry "pattern;offset" into the pattern and
// its vertical offset. A missing or malformed offset is 0.
func ParseEntry(entry string) (pattern string, offsetY int) {
	pattern, off, ok := strings.Cut(entry, ";")
	pattern = strings.TrimSpace(pattern)
	if !ok {
		return pattern, 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(off))
	if err != nil {
		return pattern, 0
	}
	return pattern, n
}
