// ABOUTME: Tests for line mode covering per-line parses, CRLF, cancellation, and formatters
// ABOUTME: Uses a recording parser in place of a bar

package lines

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingParser struct {
	mu    sync.Mutex
	texts []string
}

func (p *recordingParser) Parse(text string, force bool) []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts = append(p.texts, text)
	if strings.Contains(text, "bogus") {
		return []error{errors.New("unrecognized token: bogus")}
	}
	return nil
}

func (p *recordingParser) got() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.texts...)
}

func TestRun_OneParsePerLine(t *testing.T) {
	t.Parallel()

	p := &recordingParser{}
	err := Run(context.Background(), strings.NewReader("a\r\nb\n\nc"), p, Config{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"a", "b", "", "c"}
	got := p.got()
	if len(got) != len(want) {
		t.Fatalf("parses = %q; want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parse %d = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestRun_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   []string
	}{
		{"none", nil},
		{"text", []string{"line 2: unrecognized token: bogus"}},
		{"stream-json", []string{
			`{"type":"start"}`,
			`{"type":"parse","line":1,"text":"ok"}`,
			`{"type":"parse","line":2,"text":"x","errors":["unrecognized token: bogus"]}`,
			`{"type":"end","lines":2}`,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			cfg := Config{Format: tt.format, Report: &buf}
			if err := Run(context.Background(), strings.NewReader("ok\nx%{bogus}\n"), &recordingParser{}, cfg); err != nil {
				t.Fatalf("Run: %v", err)
			}

			out := strings.TrimRight(buf.String(), "\n")
			var got []string
			if out != "" {
				got = strings.Split(out, "\n")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("output = %q; want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %s; want %s", i, got[i], tt.want[i])
				}
			}
			if tt.format == "stream-json" {
				var evt streamEvent
				if err := json.Unmarshal([]byte(got[0]), &evt); err != nil {
					t.Errorf("unmarshal: %v", err)
				}
			}
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := &recordingParser{}
	done := make(chan error, 1)
	go func() { done <- Run(ctx, pr, p, Config{}) }()

	if _, err := pw.Write([]byte("first\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v; want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestRun_ReadError(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), failingReader{}, &recordingParser{}, Config{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Run = %v; want read error", err)
	}
}
