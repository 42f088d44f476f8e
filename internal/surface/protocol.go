// ABOUTME: Terminal image protocol detection (Kitty, iTerm2, half-block fallback)
// ABOUTME: Detects Kitty/Ghostty/WezTerm as Kitty-compatible; caches result via sync.Once

package surface

import (
	"os"
	"strings"
	"sync"
)

// Protocol identifies how frames are drawn in a terminal.
type Protocol int

const (
	ProtoHalfBlock Protocol = iota // ANSI true-color half blocks
	ProtoKitty                     // Kitty graphics protocol (also Ghostty, WezTerm)
	ProtoITerm2                    // iTerm2 inline images
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtoKitty:
		return "kitty"
	case ProtoITerm2:
		return "iterm2"
	default:
		return "halfblock"
	}
}

// ParseProtocol maps a name to a protocol; "auto" and "" mean Detect.
func ParseProtocol(name string) (Protocol, bool) {
	switch strings.ToLower(name) {
	case "", "auto":
		return Detect(), true
	case "kitty":
		return ProtoKitty, true
	case "iterm2":
		return ProtoITerm2, true
	case "halfblock":
		return ProtoHalfBlock, true
	}
	return ProtoHalfBlock, false
}

var (
	detectOnce sync.Once
	detected   Protocol
)

// Detect probes environment variables for an image protocol. The result is
// cached after the first call.
func Detect() Protocol {
	detectOnce.Do(func() {
		detected = detect()
	})
	return detected
}

// resetDetectCache clears the cached result. Used only in tests.
func resetDetectCache() {
	detectOnce = sync.Once{}
	detected = ProtoHalfBlock
}

func detect() Protocol {
	term := strings.ToLower(os.Getenv("TERM_PROGRAM"))

	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "" || term == "kitty":
		return ProtoKitty
	case os.Getenv("GHOSTTY_RESOURCES_DIR") != "" || term == "ghostty":
		return ProtoKitty
	case os.Getenv("WEZTERM_PANE") != "" || term == "wezterm":
		return ProtoKitty
	case os.Getenv("ITERM_SESSION_ID") != "" || term == "iterm.app":
		return ProtoITerm2
	}
	return ProtoHalfBlock
}
