package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig is the top-level simgate configuration file.
type ServerConfig struct {
	// Addr is the framed-protocol TCP listen address.
	Addr string `toml:"addr"`
	// UnixSocket optionally exposes the same protocol on a local
	// domain socket.
	UnixSocket string `toml:"unix_socket"`
	// AdminAddr serves the HTTP admin plane (health, metrics,
	// command listing). Empty disables it.
	AdminAddr string `toml:"admin_addr"`
	// MaxPayloadBytes bounds a single frame payload.
	MaxPayloadBytes uint32 `toml:"max_payload_bytes"`
	// PollYieldMS is slept between would-block receive retries.
	// Zero busy-polls.
	PollYieldMS int `toml:"poll_yield_ms"`
	// RecentCommands bounds the admin plane's recent-command log.
	RecentCommands int      `toml:"recent_commands"`
	CorsOrigins    []string `toml:"cors_origins"`
}

func Load(path string) (ServerConfig, error) {
	var cfg ServerConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() ServerConfig {
	cfg := ServerConfig{}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *ServerConfig) {
	if cfg.Addr == "" {
		cfg.Addr = ":9000"
	}
	if cfg.MaxPayloadBytes == 0 {
		cfg.MaxPayloadBytes = 64 * 1024 * 1024
	}
	if cfg.RecentCommands == 0 {
		cfg.RecentCommands = 128
	}
}

func Validate(cfg ServerConfig) error {
	if !strings.Contains(cfg.Addr, ":") {
		return fmt.Errorf("config: addr %q must be host:port", cfg.Addr)
	}
	if cfg.PollYieldMS < 0 {
		return fmt.Errorf("config: poll_yield_ms must not be negative")
	}
	if cfg.RecentCommands < 0 {
		return fmt.Errorf("config: recent_commands must not be negative")
	}
	return nil
}

func (c ServerConfig) PollYield() time.Duration {
	return time.Duration(c.PollYieldMS) * time.Millisecond
}
