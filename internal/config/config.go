// Package config holds the runtime settings shared by the pnm-tools CLI and
// the MCP server.
//
// Values come from environment variables first and may be overridden by
// command-line flags. The resulting Config builds the hclog.Logger used by
// every component, including the codec diagnostics in pkg/pnm.
package config

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel names the variable holding the log level.
	EnvLogLevel = "PNM_TOOLS_LOG_LEVEL"
	// EnvLogFormat names the variable selecting the log format ("json" or "text").
	EnvLogFormat = "PNM_TOOLS_LOG_FORMAT"

	defaultLogLevel = "info"
)

var (
	// ErrInvalidLogLevel is returned when the log level is not recognized
	ErrInvalidLogLevel = errors.New("log-level must be one of: trace, debug, info, warn, error")
	// ErrInvalidLogFormat is returned when the log format is neither json nor text
	ErrInvalidLogFormat = errors.New("log-format must be one of: json, text")
)

// Config holds the logging configuration.
type Config struct {
	LogLevel string
	LogJSON  bool
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{LogLevel: defaultLogLevel}
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which has the signature of
// os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	c := Default()
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "json":
			c.LogJSON = true
		case "text":
			c.LogJSON = false
		default:
			return nil, ErrInvalidLogFormat
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that all configuration values are recognized.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// NewLogger creates a named logger writing to output (stderr when nil).
// Stdout is reserved for command output and the MCP protocol.
func (c *Config) NewLogger(name string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(c.LogLevel),
		JSONFormat: c.LogJSON,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}
