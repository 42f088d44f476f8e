// ABOUTME: CLI entry point for statusbar: loads config, bootstraps the bar, and runs the selected mode
// ABOUTME: Line, RPC, preview, and window modes; an errgroup supervises input, config watcher, and signals

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/statusbar-go/internal/termfix"

	"fyne.io/fyne/v2/app"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/statusbar-go/internal/bar"
	"github.com/mauromedda/statusbar-go/internal/config"
	"github.com/mauromedda/statusbar-go/internal/dispatch"
	"github.com/mauromedda/statusbar-go/internal/log"
	"github.com/mauromedda/statusbar-go/internal/markup"
	"github.com/mauromedda/statusbar-go/internal/mode/lines"
	"github.com/mauromedda/statusbar-go/internal/mode/preview"
	"github.com/mauromedda/statusbar-go/internal/mode/rpc"
	"github.com/mauromedda/statusbar-go/internal/surface"
	"github.com/mauromedda/statusbar-go/internal/surface/window"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("statusbar %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the configuration and dispatches to the selected mode.
func run(args cliArgs) error {
	if args.logFile != "" {
		f, err := os.OpenFile(args.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	switch {
	case args.verbose:
		log.SetLevel(log.LevelDebug)
	case cfg.LogLevel != "":
		lvl, ok := log.ParseLevel(cfg.LogLevel)
		if !ok {
			log.Warn("config: unknown log-level %q", cfg.LogLevel)
		}
		log.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case args.preview:
		return runPreview(ctx, args, cfg)
	case cfg.Surface == config.SurfaceWindow:
		return runWindow(ctx, args, cfg)
	default:
		return runHeadless(ctx, args, cfg)
	}
}

// runHeadless drives the bar from stdin, as markup lines or RPC requests,
// presenting to a terminal, a PNG file, or nowhere.
func runHeadless(ctx context.Context, args cliArgs, cfg *config.Config) error {
	surf, err := newSurface(cfg, args)
	if err != nil {
		return err
	}
	defer surf.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	name, _, err := cfg.Bar(args.bar)
	if err != nil {
		return err
	}

	var capture *dispatch.Capture
	var disp bar.Dispatcher
	var wait func()
	if args.rpc {
		// stdout carries responses; commands travel in bar.click results.
		next, w := newExecDispatcher(ctx, cfg, name)
		capture = dispatch.NewCapture(next)
		disp, wait = capture, w
	} else {
		disp, wait = newDispatcher(ctx, cfg, name, os.Stdout)
	}
	defer wait()

	sess, err := newSession(barLoader(args, surf, disp))
	if err != nil {
		return err
	}
	defer sess.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watch(gctx, args, sess) })
	g.Go(func() error {
		defer cancel()
		if args.rpc {
			router := rpc.NewRouter()
			rpc.RegisterHandlers(router, rpc.BarDeps(sess.current, capture))
			return rpc.NewServer(router.Handle).Run(gctx)
		}
		return lines.Run(gctx, os.Stdin, sess, lines.Config{Format: args.report, Report: os.Stderr})
	})
	return g.Wait()
}

// runWindow shows the bar in a desktop window. The window owns the main
// goroutine; input and the watcher run alongside until it closes.
func runWindow(ctx context.Context, args cliArgs, cfg *config.Config) error {
	name, bc, err := cfg.Bar(args.bar)
	if err != nil {
		return err
	}
	settings, _, err := bar.Configure(name, bc, cfg.Monitors)
	if err != nil {
		return fmt.Errorf("bar %q: %w", name, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	disp, wait := newDispatcher(ctx, cfg, name, os.Stdout)
	defer wait()

	var sess *session
	a := app.NewWithID("statusbar." + name)
	win := window.New(a, settings.WMName, settings.Width, settings.Height, func(x, y int, btn markup.Button) {
		sess.current().HandleButtonPress(x, y, btn)
	})
	if settings.X != 0 || settings.Y != 0 {
		log.Debug("window: position %d,%d is left to the window manager", settings.X, settings.Y)
	}

	sess, err = newSession(barLoader(args, win, disp))
	if err != nil {
		return err
	}
	defer sess.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watch(gctx, args, sess) })
	g.Go(func() error {
		return lines.Run(gctx, os.Stdin, sess, lines.Config{Format: args.report, Report: os.Stderr})
	})
	go func() {
		<-gctx.Done()
		_ = win.Close()
	}()

	win.Run()
	cancel()
	return g.Wait()
}

// runPreview renders the bar inside a Bubble Tea program. Markup lines
// still come from stdin; keys and mouse come from the controlling tty.
func runPreview(ctx context.Context, args cliArgs, cfg *config.Config) error {
	if args.logFile == "" {
		prev := log.SetOutput(io.Discard)
		defer log.SetOutput(prev)
	}

	name, _, err := cfg.Bar(args.bar)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	next, wait := newExecDispatcher(ctx, cfg, name)
	defer wait()
	capture := dispatch.NewCapture(next)

	prog := preview.New(ctx, capture, tea.WithOutput(os.Stderr), tea.WithInputTTY())
	sess, err := newSession(barLoader(args, prog, capture))
	if err != nil {
		return err
	}
	defer sess.Close()
	prog.Attach(sess.current())
	sess.onSwap = func(b *bar.Bar) { prog.Attach(b) }

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watch(gctx, args, sess) })
	g.Go(func() error {
		return lines.Run(gctx, os.Stdin, sess, lines.Config{})
	})

	runErr := prog.Run()
	cancel()
	if err := g.Wait(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// watch reloads the session whenever the config file changes.
func watch(ctx context.Context, args cliArgs, sess *session) error {
	w := config.NewWatcher([]string{args.configPath()}, sess.Reload)
	return w.Run(ctx)
}

// newSurface builds the non-window surface named by cfg.
func newSurface(cfg *config.Config, args cliArgs) (surface.Surface, error) {
	switch cfg.Surface {
	case config.SurfaceTerminal:
		proto, ok := surface.ParseProtocol(args.protocol)
		if !ok {
			return nil, fmt.Errorf("unknown terminal protocol %q", args.protocol)
		}
		term := surface.NewTerminal(os.Stderr, proto, args.cols)
		log.Info("terminal: drawing with the %s protocol", term.Protocol())
		return term, nil
	case config.SurfacePNG:
		out := cfg.Output
		if out == "" {
			out = config.DefaultOutput()
		}
		log.Info("png: writing frames to %s", out)
		return surface.NewPNG(out), nil
	case config.SurfaceNone:
		return &surface.Discard{}, nil
	default:
		return nil, fmt.Errorf("surface %q is not available in this mode", cfg.Surface)
	}
}

// newDispatcher returns the click dispatcher named by cfg and a function
// that waits for in-flight commands.
func newDispatcher(ctx context.Context, cfg *config.Config, name string, stdout io.Writer) (bar.Dispatcher, func()) {
	if d, wait := newExecDispatcher(ctx, cfg, name); d != nil {
		return d, wait
	}
	return dispatch.NewPrinter(stdout), func() {}
}

// newExecDispatcher returns an executor when cfg asks for exec dispatch,
// or nil.
func newExecDispatcher(ctx context.Context, cfg *config.Config, name string) (bar.Dispatcher, func()) {
	if cfg.Dispatch != config.DispatchExec {
		return nil, func() {}
	}
	e := dispatch.NewExecutor(ctx, name, func(out string) {
		log.Info("dispatch: %s", out)
	})
	return e, e.Wait
}
