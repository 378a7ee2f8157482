// Package config assembles runtime configuration from the viper-backed
// config file, environment variables (including .env files loaded at
// startup), and an interactive prompt for the bot token as a last resort.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/jmallard/rollcall/pkg/errors"
)

// Defaults.
const (
	DefaultResolveConcurrency = 4
	DefaultRequestsPerSecond  = 10
	cacheFileName             = "cache.bolt"
)

// Config holds the settings shared by all commands.
type Config struct {
	// BotToken authenticates against the Bot API. Only needed by
	// commands that talk to the remote service.
	BotToken string

	// CacheDir holds the local bolt cache. Defaults to ~/.rollcall.
	CacheDir string

	// ResolveConcurrency bounds parallel lookups in the resolution pass.
	ResolveConcurrency int

	// RequestsPerSecond paces Bot API calls.
	RequestsPerSecond float64
}

// Load builds a Config from viper's merged view of config file, env vars,
// and defaults. Viper must already be initialized by the root command.
func Load() *Config {
	cfg := &Config{
		BotToken:           viper.GetString("bot_token"),
		CacheDir:           viper.GetString("cache_dir"),
		ResolveConcurrency: viper.GetInt("resolve_concurrency"),
		RequestsPerSecond:  viper.GetFloat64("requests_per_second"),
	}
	if cfg.CacheDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.CacheDir = filepath.Join(home, ".rollcall")
		} else {
			cfg.CacheDir = ".rollcall"
		}
	}
	if cfg.ResolveConcurrency < 1 {
		cfg.ResolveConcurrency = DefaultResolveConcurrency
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return cfg
}

// CachePath returns the bolt database location, creating the cache
// directory if needed.
func (c *Config) CachePath() (string, error) {
	if err := os.MkdirAll(c.CacheDir, 0o700); err != nil {
		return "", errors.WrapIO("create", c.CacheDir, err)
	}
	return filepath.Join(c.CacheDir, cacheFileName), nil
}

// Token returns the bot token, prompting on the terminal when it is not
// configured and stdin is interactive. The prompt does not echo.
func (c *Config) Token() (string, error) {
	if c.BotToken != "" {
		return c.BotToken, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.ErrTokenRequired
	}

	fmt.Fprint(os.Stderr, "Bot token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.NewConfigError("bot_token", "could not read token", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errors.ErrTokenRequired
	}
	c.BotToken = token
	return token, nil
}
