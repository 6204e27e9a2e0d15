// Package config resolves the runtime settings of the service.
//
// Every setting has a compiled default, so an empty environment yields the
// canonical bootstrap: listen on 0.0.0.0:8000 with info-level logging.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

// Environment variables that override the defaults.
const (
	envHost            = "HOST"
	envPort            = "PORT"
	envLogLevel        = "LOG_LEVEL"
	envShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

// Config holds the resolved settings.
type Config struct {
	Host            string
	Port            int
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Default returns the compiled defaults.
func Default() Config {
	return Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Addr returns the host:port pair the server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads an optional .env file from the working directory and then
// applies environment overrides to the defaults. Variables already present in
// the environment take precedence over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv applies overrides found through lookup to the defaults.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(envHost); ok {
		cfg.Host = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", envPort, err)
		}
		if port < 0 || port > 65535 {
			return Config{}, fmt.Errorf("parse %s: port %d out of range", envPort, port)
		}
		cfg.Port = port
	}
	if v, ok := lookup(envLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(envShutdownTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", envShutdownTimeout, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse %s: duration must be positive, got %s", envShutdownTimeout, d)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}
