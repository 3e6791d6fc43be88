// Package config loads server configuration from a TOML file, then
// lets CLI flags and finally environment variables override it, per
// spec.md §6 and SPEC_FULL.md's ambient-stack extension (TOML instead
// of the distillation's bare JSON sketch, matching the domain stack's
// go-toml dependency).
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml"
)

// Config holds the server's startup configuration.
type Config struct {
	Port         uint16 `toml:"port"`
	ViewDistance uint8  `toml:"view_distance"`
	MaxPlayers   uint32 `toml:"max_players"`
	MOTD         string `toml:"motd"`
	WorldPath    string `toml:"world_path"`

	// WriteTimeoutSeconds bounds how long the writer task will block on
	// a stalled client before giving up and closing the connection.
	WriteTimeoutSeconds uint32 `toml:"write_timeout_seconds"`
}

// WriteTimeout is WriteTimeoutSeconds as a time.Duration, for passing
// straight to net.Conn.SetWriteDeadline.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// Default returns the configuration used when no file, flag, or
// environment variable overrides a setting.
func Default() *Config {
	return &Config{
		Port:                25565,
		ViewDistance:        6,
		MaxPlayers:          20,
		MOTD:                "A voxelpulse server",
		WorldPath:           "world",
		WriteTimeoutSeconds: 30,
	}
}

// Load builds the effective configuration: defaults, overlaid by the
// TOML file at path (if it exists), overlaid by flags parsed from
// args, overlaid by the
// PORT/VIEW_DISTANCE/MAX_PLAYERS/MOTD/WORLD_PATH/WRITE_TIMEOUT_SECONDS
// environment variables.
func Load(path string, args []string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// No file yet — defaults (possibly flag/env-overridden) stand.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	fs := flag.NewFlagSet("voxelpulse", flag.ContinueOnError)
	port := fs.Uint("port", uint(cfg.Port), "server port")
	viewDistance := fs.Uint("view-distance", uint(cfg.ViewDistance), "view distance in chunks")
	maxPlayers := fs.Uint("max-players", uint(cfg.MaxPlayers), "maximum concurrent players")
	motd := fs.String("motd", cfg.MOTD, "server description shown in status")
	worldPath := fs.String("world-path", cfg.WorldPath, "directory for persisted world/player state")
	writeTimeout := fs.Uint("write-timeout", uint(cfg.WriteTimeoutSeconds), "seconds a stalled client's writer may block before the connection is dropped")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Port = uint16(*port)
	cfg.ViewDistance = uint8(*viewDistance)
	cfg.MaxPlayers = uint32(*maxPlayers)
	cfg.MOTD = *motd
	cfg.WorldPath = *worldPath
	cfg.WriteTimeoutSeconds = uint32(*writeTimeout)

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("PORT"); ok {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			cfg.Port = uint16(n)
		}
	}
	if v, ok := os.LookupEnv("VIEW_DISTANCE"); ok {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.ViewDistance = uint8(n)
		}
	}
	if v, ok := os.LookupEnv("MAX_PLAYERS"); ok {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.MaxPlayers = uint32(n)
		}
	}
	if v, ok := os.LookupEnv("MOTD"); ok {
		cfg.MOTD = v
	}
	if v, ok := os.LookupEnv("WORLD_PATH"); ok {
		cfg.WorldPath = v
	}
	if v, ok := os.LookupEnv("WRITE_TIMEOUT_SECONDS"); ok {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.WriteTimeoutSeconds = uint32(n)
		}
	}
}
