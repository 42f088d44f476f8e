// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --config, --bar, --rpc, --preview, surface/dispatch overrides, -v, --version

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/mauromedda/statusbar-go/internal/config"
)

type cliArgs struct {
	verbose  bool
	version  bool
	config   string
	bar      string
	rpc      bool
	preview  bool
	surface  string
	dispatch string
	output   string
	protocol string
	cols     int
	report   string
	logFile  string
}

func parseFlags(argv []string, stderr io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("statusbar", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&args.verbose, "v", false, "Verbose (debug) logging")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")
	fs.StringVar(&args.config, "config", "", "Config file (default ~/.config/statusbar/config.yaml)")
	fs.StringVar(&args.bar, "bar", "", "Bar section to run")
	fs.BoolVar(&args.rpc, "rpc", false, "Read JSONL requests on stdin instead of markup lines")
	fs.BoolVar(&args.preview, "preview", false, "Interactive terminal preview with mouse clicks")
	fs.StringVar(&args.surface, "surface", "", "Override surface: terminal, png, window, none")
	fs.StringVar(&args.dispatch, "dispatch", "", "Override click dispatch: print, exec")
	fs.StringVar(&args.output, "output", "", "PNG output path for the png surface")
	fs.StringVar(&args.protocol, "protocol", "auto", "Terminal image protocol: auto, kitty, iterm2, halfblock")
	fs.IntVar(&args.cols, "cols", 0, "Terminal columns for the terminal surface (0 = detect)")
	fs.StringVar(&args.report, "report", "none", "Line mode error report: none, text, stream-json")
	fs.StringVar(&args.logFile, "log-file", "", "Write logs to this file instead of stderr")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	if fs.NArg() > 0 {
		return cliArgs{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if args.rpc && args.preview {
		return cliArgs{}, fmt.Errorf("--rpc and --preview are mutually exclusive")
	}
	switch args.report {
	case "none", "text", "stream-json":
	default:
		return cliArgs{}, fmt.Errorf("unknown report format %q", args.report)
	}
	return args, nil
}

// apply copies CLI overrides onto cfg; flags win over env and file.
func (a cliArgs) apply(cfg *config.Config) {
	if a.surface != "" {
		cfg.Surface = a.surface
	}
	if a.dispatch != "" {
		cfg.Dispatch = a.dispatch
	}
	if a.output != "" {
		cfg.Output = a.output
	}
}

func (a cliArgs) configPath() string {
	if a.config != "" {
		return a.config
	}
	return config.File()
}
