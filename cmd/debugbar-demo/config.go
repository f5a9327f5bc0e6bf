package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/evan-idocoding/debugbar/access"
)

// Config is the demo server configuration file.
type Config struct {
	Listen string `toml:"listen" validate:"required"`
	Prefix string `toml:"prefix" validate:"required,startswith=/"`
	// SettingsFile persists the bar settings. Empty keeps them in memory.
	SettingsFile string `toml:"settings_file"`
	// Secret signs sessions and anti-forgery tokens.
	Secret   string `toml:"secret" validate:"required,min=8"`
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`
	// LogRing is how many records the recent log page keeps.
	LogRing int    `toml:"log_ring" validate:"gte=0"`
	Users   []User `toml:"users" validate:"dive"`
}

// User is a demo account.
type User struct {
	Name     string `toml:"name" validate:"required"`
	Password string `toml:"password" validate:"required"`
	Role     string `toml:"role" validate:"oneof=admin developer"`
}

func defaultConfig() Config {
	return Config{
		Listen:   "127.0.0.1:8080",
		Prefix:   "/_debug_bar",
		Secret:   "insecure-demo-secret",
		LogLevel: "info",
		LogRing:  200,
		Users: []User{
			{Name: "admin", Password: "admin", Role: "admin"},
			{Name: "dev", Password: "dev", Role: "developer"},
		},
	}
}

// loadConfig reads path over the defaults. A missing file is not an error when
// optional is set.
func loadConfig(fsys fs.FS, path string, optional bool) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		b, err := fs.ReadFile(fsys, path)
		switch {
		case err == nil:
			// A file that lists users replaces the default accounts.
			cfg.Users = nil
			if _, err := toml.Decode(string(b), &cfg); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
			if len(cfg.Users) == 0 {
				cfg.Users = defaultConfig().Users
			}
		case errors.Is(err, fs.ErrNotExist) && optional:
		default:
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func roleCapabilities(role string) []access.Capability {
	switch role {
	case "admin":
		return []access.Capability{access.ViewBar, access.Administer, access.ViewReports}
	default:
		return []access.Capability{access.ViewBar}
	}
}
