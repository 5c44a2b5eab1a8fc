package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultListenPort is used when neither the config nor PORT sets a port.
const DefaultListenPort = 8000

// DefaultRequestTimeout bounds the startup domain fetch.
const DefaultRequestTimeout = 10 * time.Second

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenPort:     defaultPort(),
		BackendURL:     "http://localhost:8080",
		RequestTimeout: DefaultRequestTimeout.String(),
		Theme:          ThemeAuto,
		Log: LogConfig{
			Level:  "info",
			Format: LogConsole,
		},
	}
}

// defaultPort honours the PORT variable set by most container platforms.
func defaultPort() int {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p
		}
	}
	return DefaultListenPort
}
