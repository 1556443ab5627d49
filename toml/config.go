// Package toml overlays a TOML configuration file onto bot.Config.
package toml

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/botkit/bot"
)

// file mirrors the on-disk layout. Empty values leave the underlying
// configuration untouched.
type file struct {
	Provider            string `toml:"provider"`
	Model               string `toml:"model"`
	SystemPrompt        string `toml:"system_prompt"`
	LogLevel            string `toml:"log_level"`
	GitHubToken         string `toml:"github_token"`
	DefaultTargetBranch string `toml:"default_target_branch"`
	RatesURL            string `toml:"rates_url"`
	GoogleCredentials   string `toml:"google_credentials"`
	GoogleToken         string `toml:"google_token"`
	AuthAddr            string `toml:"auth_addr"`
	StateDir            string `toml:"state_dir"`
	PIDFile             string `toml:"pid_file"`

	Pomodoro struct {
		Work  string `toml:"work"`
		Break string `toml:"break"`
	} `toml:"pomodoro"`

	Schedule struct {
		RateAlert         string `toml:"rate_alert"`
		RateAlertCurrency string `toml:"rate_alert_currency"`
	} `toml:"schedule"`
}

// DefaultPath returns ~/.config/bot/config.toml, or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bot", "config.toml"), nil
}

// Load overlays the file at path onto cfg. A missing file is not an error.
func Load(path string, cfg bot.Config) (bot.Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	cfg, err = Decode(f, cfg)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays the TOML document read from r onto cfg. Unknown keys and
// malformed durations are reported as ErrValidation.
func Decode(r io.Reader, cfg bot.Config) (bot.Config, error) {
	var f file
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return cfg, fmt.Errorf("parse config: %v: %w", err, bot.ErrValidation)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("unknown config keys %s: %w", strings.Join(keys, ", "), bot.ErrValidation)
	}

	set(&cfg.Provider, f.Provider)
	set(&cfg.Model, f.Model)
	set(&cfg.SystemPrompt, f.SystemPrompt)
	set(&cfg.LogLevel, f.LogLevel)
	set(&cfg.GitHubToken, f.GitHubToken)
	set(&cfg.DefaultTargetBranch, f.DefaultTargetBranch)
	set(&cfg.RatesURL, f.RatesURL)
	set(&cfg.GoogleCredentials, f.GoogleCredentials)
	set(&cfg.GoogleToken, f.GoogleToken)
	set(&cfg.AuthAddr, f.AuthAddr)
	set(&cfg.StateDir, f.StateDir)
	set(&cfg.PIDFile, f.PIDFile)
	set(&cfg.RateAlertSpec, f.Schedule.RateAlert)
	set(&cfg.RateAlertCurrency, f.Schedule.RateAlertCurrency)

	if err := setDuration(&cfg.WorkDuration, "pomodoro.work", f.Pomodoro.Work); err != nil {
		return cfg, err
	}
	if err := setDuration(&cfg.BreakDuration, "pomodoro.break", f.Pomodoro.Break); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fmt.Errorf("%s: %q is not a positive duration: %w", key, v, bot.ErrValidation)
	}
	*dst = d
	return nil
}
