package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/botkit/bot"
	"github.com/botkit/bot/toml"
)

// flags are the global command-line overrides.
type flags struct {
	configPath string
	provider   string
	model      string
	apiKey     string
	verbose    bool
}

// loadConfig resolves the configuration: defaults, then the TOML file, then
// the environment, then flags. Env is only read through getenv.
func loadConfig(f flags, getenv func(string) string) (bot.Config, error) {
	cfg := bot.DefaultConfig()

	path := f.configPath
	if path == "" {
		p, err := toml.DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		var err error
		if cfg, err = toml.Load(path, cfg); err != nil {
			return bot.Config{}, err
		}
	}

	overlay := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	overlay(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	overlay(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	overlay(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	overlay(&cfg.GitHubToken, "GITHUB_TOKEN")
	overlay(&cfg.Model, "BOT_MODEL")
	overlay(&cfg.Provider, "BOT_PROVIDER")

	if f.provider != "" {
		cfg.Provider = f.provider
	}
	if f.model != "" {
		cfg.Model = f.model
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return bot.Config{}, fmt.Errorf("resolve state directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".bot")
	}
	if !filepath.IsAbs(cfg.PIDFile) {
		cfg.PIDFile = filepath.Join(cfg.StateDir, cfg.PIDFile)
	}
	return cfg, nil
}

// logToFile is the command annotation that moves logging off stderr.
const logToFile = "log-to-file"

// openLogFile opens bot.log in stateDir for appending. It stays open for the
// life of the process.
func openLogFile(stateDir string) (io.Writer, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(stateDir, "bot.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// newLogger returns a text logger on w at the named level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, bot.ErrValidation)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
