// ABOUTME: Markup interpreter turning "%{...}" tagged text into an ordered directive stream
// ABOUTME: Lazy iter.Seq2; bad tokens are yielded as errors and scanning resumes after them

package markup

import (
	"iter"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mauromedda/statusbar-go/internal/color"
)

const (
	blockOpen  = "%{"
	blockClose = '}'
)

// Interpret returns the directives encoded in text, in source order.
// Recoverable problems are yielded as (nil, err) pairs; the sequence always
// continues with the rest of the input. Each iteration starts from scratch
// with its own open-action stack, so the sequence can be ranged over again.
func Interpret(text string) iter.Seq2[Directive, error] {
	return func(yield func(Directive, error) bool) {
		s := &scanner{text: text, yield: yield}
		s.run()
	}
}

// Collect drains Interpret into slices. Intended for tests and tooling.
func Collect(text string) ([]Directive, []error) {
	var (
		ds   []Directive
		errs []error
	)
	for d, err := range Interpret(text) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ds = append(ds, d)
	}
	return ds, errs
}

// Strip returns only the literal text of s, without any tags.
func Strip(text string) string {
	var b strings.Builder
	for d, err := range Interpret(text) {
		if tr, ok := d.(TextRun); ok && err == nil {
			b.WriteRune(tr.Rune)
		}
	}
	return b.String()
}

type scanner struct {
	text    string
	pos     int
	actions []Button
	yield   func(Directive, error) bool
	stopped bool
}

func (s *scanner) emit(d Directive) bool {
	if s.stopped {
		return false
	}
	if !s.yield(d, nil) {
		s.stopped = true
	}
	return !s.stopped
}

func (s *scanner) fail(err error) bool {
	if s.stopped {
		return false
	}
	if !s.yield(nil, err) {
		s.stopped = true
	}
	return !s.stopped
}

func (s *scanner) run() {
	for s.pos < len(s.text) && !s.stopped {
		idx := strings.Index(s.text[s.pos:], blockOpen)
		if idx < 0 {
			s.literal(s.text[s.pos:])
			return
		}
		if idx > 0 {
			if !s.literal(s.text[s.pos : s.pos+idx]) {
				return
			}
		}
		s.pos += idx + len(blockOpen)
		s.block()
	}
}

// literal emits one TextRun per codepoint of the NFC form of chunk.
func (s *scanner) literal(chunk string) bool {
	for _, r := range norm.NFC.String(chunk) {
		if !s.emit(TextRun{Rune: r}) {
			return false
		}
	}
	return true
}

// block consumes space-separated tags up to the closing brace.
func (s *scanner) block() {
	for !s.stopped {
		for s.pos < len(s.text) && s.text[s.pos] == ' ' {
			s.pos++
		}
		if s.pos >= len(s.text) {
			return
		}
		if s.text[s.pos] == blockClose {
			s.pos++
			return
		}
		if s.text[s.pos] == 'A' {
			s.action()
			continue
		}

		start := s.pos
		for s.pos < len(s.text) && s.text[s.pos] != ' ' && s.text[s.pos] != blockClose {
			s.pos++
		}
		s.tag(s.text[start:s.pos])
	}
}

func (s *scanner) tag(tok string) {
	switch tok[0] {
	case 'l', 'c', 'r':
		if len(tok) != 1 {
			s.fail(&UnrecognizedTokenError{Token: tok})
			return
		}
		s.emit(AlignmentChange{Zone: map[byte]Zone{'l': ZoneLeft, 'c': ZoneCenter, 'r': ZoneRight}[tok[0]]})

	case 'B', 'F', 'U':
		target := map[byte]ColorTarget{'B': TargetBackground, 'F': TargetForeground, 'U': TargetLine}[tok[0]]
		val := tok[1:]
		if val == "-" {
			s.emit(ColorChange{Target: target, Reset: true})
			return
		}
		c, err := color.Parse(val)
		if err != nil {
			s.fail(&InvalidColorError{Token: tok, Err: err})
			return
		}
		s.emit(ColorChange{Target: target, Color: c})

	case 'T':
		val := tok[1:]
		if val == "-" {
			s.emit(FontChange{Index: 0})
			return
		}
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			s.fail(&UnrecognizedTokenError{Token: tok})
			return
		}
		s.emit(FontChange{Index: n})

	case 'O':
		n, err := strconv.Atoi(tok[1:])
		if err != nil {
			s.fail(&UnrecognizedTokenError{Token: tok})
			return
		}
		s.emit(PixelOffset{Delta: n})

	case '+', '-', '!':
		attr, ok := parseAttr(tok)
		if !ok {
			s.fail(&UnrecognizedTokenError{Token: tok})
			return
		}
		switch tok[0] {
		case '+':
			s.emit(AttributeSet{Attr: attr})
		case '-':
			s.emit(AttributeUnset{Attr: attr})
		default:
			s.emit(AttributeToggle{Attr: attr})
		}

	default:
		s.fail(&UnrecognizedTokenError{Token: tok})
	}
}

func parseAttr(tok string) (Attribute, bool) {
	if len(tok) != 2 {
		return 0, false
	}
	switch tok[1] {
	case 'o':
		return AttrOverline, true
	case 'u':
		return AttrUnderline, true
	}
	return 0, false
}

// action handles "A", "A<btn>", "A:cmd:" and "A<btn>:cmd:". The command
// runs until the first ':' not preceded by a backslash.
func (s *scanner) action() {
	start := s.pos
	s.pos++ // 'A'

	btn := ButtonNone
	if s.pos < len(s.text) && s.text[s.pos] >= '0' && s.text[s.pos] <= '9' {
		btn = Button(s.text[s.pos] - '0')
		s.pos++
	}

	if s.pos < len(s.text) && s.text[s.pos] == ':' {
		s.pos++
		cmd, ok := s.command()
		if !ok {
			s.fail(&UnrecognizedTokenError{Token: s.text[start:]})
			return
		}
		if !s.atTokenEnd() {
			s.skipToken(start)
			return
		}
		if btn == ButtonNone {
			btn = ButtonLeft
		}
		if !btn.Valid() {
			s.fail(&UnrecognizedTokenError{Token: s.text[start:s.pos]})
			return
		}
		s.actions = append(s.actions, btn)
		s.emit(ActionOpen{Button: btn, Command: cmd})
		return
	}

	if !s.atTokenEnd() {
		s.skipToken(start)
		return
	}
	if btn != ButtonNone && !btn.Valid() {
		s.fail(&UnrecognizedTokenError{Token: s.text[start:s.pos]})
		return
	}
	s.emit(ActionClose{Button: s.popAction(btn)})
}

// command reads an escaped command body and the terminating ':'.
func (s *scanner) command() (string, bool) {
	var b strings.Builder
	for s.pos < len(s.text) {
		ch := s.text[s.pos]
		switch {
		case ch == '\\' && s.pos+1 < len(s.text) && s.text[s.pos+1] == ':':
			b.WriteByte(':')
			s.pos += 2
		case ch == ':':
			s.pos++
			return b.String(), true
		default:
			b.WriteByte(ch)
			s.pos++
		}
	}
	return "", false
}

func (s *scanner) atTokenEnd() bool {
	return s.pos >= len(s.text) || s.text[s.pos] == ' ' || s.text[s.pos] == blockClose
}

func (s *scanner) skipToken(start int) {
	for s.pos < len(s.text) && s.text[s.pos] != ' ' && s.text[s.pos] != blockClose {
		s.pos++
	}
	s.fail(&UnrecognizedTokenError{Token: s.text[start:s.pos]})
}

// popAction resolves which button a close token refers to. With an explicit
// button the most recent matching entry is removed; a bare close takes the
// most recent entry of any button, defaulting to the left button.
func (s *scanner) popAction(btn Button) Button {
	for i := len(s.actions) - 1; i >= 0; i-- {
		if btn == ButtonNone || s.actions[i] == btn {
			found := s.actions[i]
			s.actions = append(s.actions[:i], s.actions[i+1:]...)
			return found
		}
	}
	if btn == ButtonNone {
		return ButtonLeft
	}
	return btn
}
