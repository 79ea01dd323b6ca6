// Package config provides configuration for the nanolink binaries using
// command-line flags overridden by environment variables.
package config

import (
	"flag"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr is the listen address of the development server (ip:port).
	Addr string `env:"SERVER_ADDRESS"`

	// APIBaseURL is the base URL of the backend API consumed by the client.
	APIBaseURL string `env:"NANOLINK_API_URL"`

	// LinkBaseURL is the public base address short links are built on.
	LinkBaseURL string `env:"NANOLINK_LINK_BASE_URL"`

	// SessionFile is the path of the durable session slot.
	SessionFile string `env:"NANOLINK_SESSION_FILE"`

	// PollInterval is the activity repoll interval.
	PollInterval time.Duration `env:"NANOLINK_POLL_INTERVAL"`

	// LogLevel sets logging verbosity.
	LogLevel string `env:"NANOLINK_LOG_LEVEL"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.APIBaseURL, "api", "http://localhost:8080/api", "backend API base URL")
	flag.StringVar(&options.LinkBaseURL, "link-base", "http://nano.link", "public base address for short links")
	flag.StringVar(&options.SessionFile, "session-file", "session.json", "path of the persisted session")
	flag.DurationVar(&options.PollInterval, "poll", 2*time.Second, "activity repoll interval")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level")
}

// Parse parses the command-line flags and environment variables and
// returns the resulting Options. Environment variables take precedence
// over flags.
func Parse() *Options {
	flag.Parse()

	if err := env.Parse(options); err != nil {
		log.Fatalf("error while parsing environment: %v", err)
	}

	return options
}
