// ABOUTME: Action dispatchers: print clicked commands to a writer or run them through sh -c
// ABOUTME: Exec pipes a JSON click event to stdin and hands trimmed stdout back to a callback

package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/mauromedda/statusbar-go/internal/log"
)

// DefaultTimeout bounds a single executed command.
const DefaultTimeout = 5 * time.Second

// waitDelay bounds how long Execute waits for output pipes after a kill.
const waitDelay = 500 * time.Millisecond

// Func adapts a plain function to the bar dispatcher interface.
type Func func(command string)

// Dispatch calls f.
func (f Func) Dispatch(command string) { f(command) }

// Printer writes each command on its own line, the way bar consumers expect
// to read clicks from stdout.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dispatch writes command followed by a newline.
func (p *Printer) Dispatch(command string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintln(p.w, command); err != nil {
		log.Error("dispatch: writing command: %v", err)
	}
}

// Event is the JSON document piped to executed commands.
type Event struct {
	Bar     string    `json:"bar"`
	Command string    `json:"command"`
	Time    time.Time `json:"time"`
}

// Executor runs commands with sh -c in the background.
type Executor struct {
	ctx      context.Context
	bar      string
	timeout  time.Duration
	onOutput func(string)

	wg sync.WaitGroup
}

// NewExecutor returns an executor whose commands are cancelled with ctx.
// onOutput, when non-nil, receives the trimmed stdout of every command that
// printed something.
func NewExecutor(ctx context.Context, bar string, onOutput func(string)) *Executor {
	return &Executor{
		ctx:      ctx,
		bar:      bar,
		timeout:  DefaultTimeout,
		onOutput: onOutput,
	}
}

// SetTimeout overrides DefaultTimeout.
func (e *Executor) SetTimeout(d time.Duration) {
	e.timeout = d
}

// Dispatch starts command and returns immediately.
func (e *Executor) Dispatch(command string) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		out, err := e.Execute(e.ctx, command)
		if err != nil {
			log.Warn("dispatch: %v", err)
			return
		}
		if out != "" && e.onOutput != nil {
			e.onOutput(out)
		}
	}()
}

// Wait blocks until every dispatched command has finished.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Execute runs command synchronously and returns its trimmed stdout.
func (e *Executor) Execute(ctx context.Context, command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("empty command")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	data, err := json.Marshal(Event{Bar: e.bar, Command: command, Time: time.Now()})
	if err != nil {
		return "", fmt.Errorf("marshaling event: %w", err)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = bytes.NewReader(data)
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("dispatch: running %q", command)
	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("running %q: timed out after %v", command, e.timeout)
	}
	if runErr != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("running %q: %w: %s", command, runErr, msg)
		}
		return "", fmt.Errorf("running %q: %w", command, runErr)
	}
	return strings.TrimSpace(stdout.String()), nil
}
