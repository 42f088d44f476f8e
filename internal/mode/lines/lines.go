// ABOUTME: Line mode: every line read from the input is one bar parse
// ABOUTME: Reports per-line interpreter errors as text or stream-JSON

package lines

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mauromedda/statusbar-go/internal/markup"
)

// Parser is the bar operation line mode drives.
type Parser interface {
	Parse(text string, force bool) []error
}

// Config configures line mode.
type Config struct {
	Format string    // "none" (default), "text", "stream-json"
	Report io.Writer // destination of reports; ignored for "none"
}

// Run feeds each input line to p until the input ends or ctx is
// cancelled. A trailing carriage return is dropped.
func Run(ctx context.Context, r io.Reader, p Parser, cfg Config) error {
	f := newFormatter(cfg.Format, cfg.Report)

	type line struct {
		text string
		err  error
		eof  bool
	}
	in := make(chan line)
	go func() {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case in <- line{text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case in <- line{err: scanner.Err(), eof: true}:
		case <-ctx.Done():
		}
	}()

	f.start()
	defer f.end()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case l := <-in:
			if l.eof {
				if l.err != nil {
					return fmt.Errorf("reading input: %w", l.err)
				}
				return nil
			}
			n++
			text := strings.TrimSuffix(l.text, "\r")
			errs := p.Parse(text, false)
			f.parsed(n, text, errs)
		}
	}
}

// formatter abstracts report formatting.
type formatter interface {
	start()
	parsed(line int, text string, errs []error)
	end()
}

func newFormatter(format string, w io.Writer) formatter {
	if w == nil {
		return nopFormatter{}
	}
	switch format {
	case "text":
		return &textFormatter{w: w}
	case "stream-json":
		return &streamJSONFormatter{w: w}
	default:
		return nopFormatter{}
	}
}

type nopFormatter struct{}

func (nopFormatter) start()                     {}
func (nopFormatter) parsed(int, string, []error) {}
func (nopFormatter) end()                       {}

// textFormatter writes one line per interpreter error.
type textFormatter struct{ w io.Writer }

func (f *textFormatter) start() {}
func (f *textFormatter) parsed(line int, _ string, errs []error) {
	for _, e := range errs {
		fmt.Fprintf(f.w, "line %d: %v\n", line, e)
	}
}
func (f *textFormatter) end() {}

// streamJSONFormatter writes one JSON line per event.
type streamJSONFormatter struct {
	w     io.Writer
	lines int
}

type streamEvent struct {
	Type   string   `json:"type"`
	Line   int      `json:"line,omitempty"`
	Text   string   `json:"text,omitempty"` // literal text with tags removed
	Errors []string `json:"errors,omitempty"`
	Lines  int      `json:"lines,omitempty"`
}

func (f *streamJSONFormatter) start() {
	f.write(streamEvent{Type: "start"})
}

func (f *streamJSONFormatter) parsed(line int, text string, errs []error) {
	f.lines = line
	evt := streamEvent{Type: "parse", Line: line, Text: markup.Strip(text)}
	for _, e := range errs {
		evt.Errors = append(evt.Errors, e.Error())
	}
	f.write(evt)
}

func (f *streamJSONFormatter) end() {
	f.write(streamEvent{Type: "end", Lines: f.lines})
}

func (f *streamJSONFormatter) write(evt streamEvent) {
	data, _ := json.Marshal(evt)
	fmt.Fprintln(f.w, string(data))
}
