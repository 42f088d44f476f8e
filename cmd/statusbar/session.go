// ABOUTME: Live bar session: owns the current bar and swaps it on config reload
// ABOUTME: Remembers the last input line so a reloaded bar shows the same content

package main

import (
	"fmt"
	"sync"

	"github.com/mauromedda/statusbar-go/internal/bar"
	"github.com/mauromedda/statusbar-go/internal/config"
	"github.com/mauromedda/statusbar-go/internal/log"
)

type session struct {
	load   func() (*bar.Bar, error)
	onSwap func(*bar.Bar)

	mu     sync.Mutex
	bar    *bar.Bar
	last   string
	parsed bool
}

// newSession bootstraps the first bar. Its error is fatal.
func newSession(load func() (*bar.Bar, error)) (*session, error) {
	b, err := load()
	if err != nil {
		return nil, err
	}
	return &session{load: load, bar: b}, nil
}

func (s *session) current() *bar.Bar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bar
}

// Parse records text as the last input and parses it on the current bar.
func (s *session) Parse(text string, force bool) []error {
	s.mu.Lock()
	b := s.bar
	s.last, s.parsed = text, true
	s.mu.Unlock()
	return b.Parse(text, force)
}

// Reload bootstraps a fresh bar and replays the last input on it. On
// failure the running bar is kept.
func (s *session) Reload() {
	nb, err := s.load()
	if err != nil {
		log.Error("reload: %v; keeping current bar", err)
		return
	}

	s.mu.Lock()
	old := s.bar
	s.bar = nb
	last, parsed := s.last, s.parsed
	onSwap := s.onSwap
	s.mu.Unlock()

	if onSwap != nil {
		onSwap(nb)
	}
	if parsed {
		nb.Parse(last, true)
	}
	old.Close()
	log.Info("reload: bar %q ready", nb.Settings().Name)
}

// Close releases the current bar.
func (s *session) Close() {
	s.current().Close()
}

// barLoader returns a loader that re-reads the config file and bootstraps
// the selected bar onto the given presenter and dispatcher.
func barLoader(args cliArgs, p bar.Presenter, d bar.Dispatcher) func() (*bar.Bar, error) {
	return func() (*bar.Bar, error) {
		cfg, err := loadConfig(args)
		if err != nil {
			return nil, err
		}
		name, bc, err := cfg.Bar(args.bar)
		if err != nil {
			return nil, err
		}
		b, err := bar.Bootstrap(name, bc, cfg.Monitors, p, d)
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", name, err)
		}
		return b, nil
	}
}

// loadConfig reads the config file and applies CLI overrides.
func loadConfig(args cliArgs) (*config.Config, error) {
	cfg, err := config.Load(args.configPath())
	if err != nil {
		return nil, err
	}
	args.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
