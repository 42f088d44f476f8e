// ABOUTME: Interactive preview: shows the bar canvas as half-block art inside a Bubble Tea program
// ABOUTME: Terminal mouse presses map back to bar pixels; a lipgloss line shows the last command

package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mauromedda/statusbar-go/internal/dispatch"
	"github.com/mauromedda/statusbar-go/internal/markup"
	"github.com/mauromedda/statusbar-go/internal/mathutil"
	"github.com/mauromedda/statusbar-go/internal/surface"
)

// Clicker is the bar operation the preview forwards mouse presses to.
type Clicker interface {
	HandleButtonPress(x, y int, btn markup.Button) bool
}

// FrameMsg carries a freshly flushed canvas.
type FrameMsg struct{ Image image.Image }

// ClickedMsg reports the outcome of a forwarded click.
type ClickedMsg struct {
	X, Y       int
	Dispatched bool
	Command    string
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	missStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// shared is the state the model value and the program wrapper both see.
type shared struct {
	mu      sync.Mutex
	bar     Clicker
	capture *dispatch.Capture
}

func (s *shared) clicker() Clicker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bar
}

// Model renders the latest frame and routes clicks.
type Model struct {
	sh *shared

	frame image.Image
	lines []string
	cols  int // rendered width in cells
	rows  int // rendered height in pixels (two per cell)

	width  int
	status string
	style  lipgloss.Style
}

// NewModel returns a model with no frame.
func NewModel(b Clicker, capture *dispatch.Capture) Model {
	return Model{
		sh:     &shared{bar: b, capture: capture},
		width:  80,
		status: "waiting for input",
		style:  statusStyle,
	}
}

// Init returns nil; frames arrive as messages.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles frames, clicks, resizes, and quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.rebuild()

	case FrameMsg:
		m.frame = msg.Image
		m.rebuild()

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		btn, ok := mouseButton(msg.Button)
		if !ok {
			return m, nil
		}
		x, y, ok := m.barPoint(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		return m, m.click(x, y, btn)

	case ClickedMsg:
		if msg.Dispatched {
			m.status, m.style = fmt.Sprintf("%s: %s", m.position(msg.X), msg.Command), hitStyle
		} else {
			m.status, m.style = fmt.Sprintf("%s: no matching input area", m.position(msg.X)), missStyle
		}
	}

	return m, nil
}

// click forwards a press outside the event loop so dispatchers never run
// on the Bubble Tea goroutine.
func (m Model) click(x, y int, btn markup.Button) tea.Cmd {
	sh := m.sh
	return func() tea.Msg {
		b := sh.clicker()
		if b == nil {
			return ClickedMsg{X: x, Y: y}
		}
		if sh.capture != nil {
			sh.capture.Take()
		}
		ok := b.HandleButtonPress(x, y, btn)
		var cmd string
		if ok && sh.capture != nil {
			cmd = sh.capture.Take()
		}
		return ClickedMsg{X: x, Y: y, Dispatched: ok, Command: cmd}
	}
}

// rebuild re-renders the half-block lines for the current frame and width.
func (m *Model) rebuild() {
	if m.frame == nil {
		m.lines, m.cols, m.rows = nil, 0, 0
		return
	}
	w, h := surface.FitWidth(m.frame, m.width, 2)
	if w == 0 {
		m.lines, m.cols, m.rows = nil, 0, 0
		return
	}
	b := m.frame.Bounds()
	img := m.frame
	if w != b.Dx() || h != b.Dy() {
		img = surface.Scale(m.frame, w, h)
	}
	m.lines = surface.RenderHalfBlock(img)
	m.cols, m.rows = w, h
}

// barPoint maps a terminal cell to bar pixel coordinates.
func (m Model) barPoint(col, row int) (int, int, bool) {
	if m.frame == nil || col < 0 || row < 0 || col >= m.cols || row >= len(m.lines) {
		return 0, 0, false
	}
	b := m.frame.Bounds()
	x := (2*col + 1) * b.Dx() / (2 * m.cols)
	y := min((2*row+1)*b.Dy()/m.rows, b.Dy()-1)
	return x, y, true
}

// position describes bar x as a pixel and a share of the bar width.
func (m Model) position(x int) string {
	if m.frame == nil {
		return fmt.Sprintf("x=%d", x)
	}
	pct := mathutil.Percentage(x, 0, m.frame.Bounds().Dx())
	return fmt.Sprintf("x=%d (%d%%)", x, pct)
}

func mouseButton(b tea.MouseButton) (markup.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return markup.ButtonLeft, true
	case tea.MouseButtonMiddle:
		return markup.ButtonMiddle, true
	case tea.MouseButtonRight:
		return markup.ButtonRight, true
	case tea.MouseButtonWheelUp:
		return markup.ButtonScrollUp, true
	case tea.MouseButtonWheelDown:
		return markup.ButtonScrollDown, true
	default:
		return markup.ButtonNone, false
	}
}

// View renders the canvas followed by the status line.
func (m Model) View() string {
	var sb strings.Builder
	for _, l := range m.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	sb.WriteString(m.style.Render(runewidth.Truncate(m.status, m.width, "…")))
	sb.WriteByte('\n')
	sb.WriteString(statusStyle.Render(runewidth.Truncate("click a region · q quits", m.width, "…")))
	return sb.String()
}

// Program wraps a Bubble Tea program and doubles as the bar's presenter.
type Program struct {
	sh *shared
	p  *tea.Program
}

// New creates a preview program. The bar can be attached later, since it
// needs the program as its presenter.
func New(ctx context.Context, capture *dispatch.Capture, opts ...tea.ProgramOption) *Program {
	m := NewModel(nil, capture)
	base := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	return &Program{
		sh: m.sh,
		p:  tea.NewProgram(m, append(base, opts...)...),
	}
}

// Attach sets the bar clicks are forwarded to.
func (p *Program) Attach(b Clicker) {
	p.sh.mu.Lock()
	defer p.sh.mu.Unlock()
	p.sh.bar = b
}

// Present sends a frame to the program. It blocks until the program
// accepts it or has exited.
func (p *Program) Present(img image.Image) error {
	p.p.Send(FrameMsg{Image: img})
	return nil
}

// Close is a no-op; the program ends through Quit or its context.
func (p *Program) Close() error { return nil }

// Quit asks the program to exit.
func (p *Program) Quit() { p.p.Quit() }

// Run blocks until the user quits or the context is cancelled.
func (p *Program) Run() error {
	_, err := p.p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("bubble tea: %w", err)
	}
	return nil
}
