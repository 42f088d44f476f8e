// ABOUTME: Environment handling: ${VAR} expansion in string fields and STATUSBAR_* overrides
// ABOUTME: Unset variables expand to the empty string

package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Environment variables that override file values.
const (
	EnvSurface  = "STATUSBAR_SURFACE"
	EnvDispatch = "STATUSBAR_DISPATCH"
	EnvOutput   = "STATUSBAR_OUTPUT"
	EnvMonitor  = "STATUSBAR_MONITOR"
	EnvLogLevel = "STATUSBAR_LOG_LEVEL"
)

// ApplyEnv expands ${VAR} patterns and applies STATUSBAR_* overrides.
func ApplyEnv(c *Config) {
	c.Output = expandEnv(c.Output)
	for name, b := range c.Bars {
		b.Monitor = expandEnv(b.Monitor)
		b.WMName = expandEnv(b.WMName)
		for i := range b.Fonts {
			b.Fonts[i] = expandEnv(b.Fonts[i])
		}
		if m := os.Getenv(EnvMonitor); m != "" {
			b.Monitor = m
		}
		c.Bars[name] = b
	}

	if v := os.Getenv(EnvSurface); v != "" {
		c.Surface = v
	}
	if v := os.Getenv(EnvDispatch); v != "" {
		c.Dispatch = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// expandEnv replaces ${VAR} with os.Getenv(VAR). Unset vars become "".
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
