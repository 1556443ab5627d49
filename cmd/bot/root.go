package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/botkit/bot"
	"github.com/botkit/bot/beeep"
	"github.com/botkit/bot/builtin"
	"github.com/botkit/bot/calendar"
	"github.com/botkit/bot/console"
	"github.com/botkit/bot/git"
	"github.com/botkit/bot/github"
	"github.com/botkit/bot/jwt"
	"github.com/botkit/bot/pomodoro"
	"github.com/botkit/bot/vcb"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// app carries the resolved configuration and services shared by all
// commands. Fields left nil are built from the configuration; tests set
// them directly.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	flags  flags
	cfg    bot.Config
	logger *slog.Logger

	deps     *builtin.Deps
	provider func(ctx context.Context) (bot.Provider, error)
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bot",
		Short:         "Developer assistant for pull requests, currency, calendar and focus timers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bot/config.toml)")
	pf.StringVar(&a.flags.provider, "provider", "", "model provider: gemini, openai or anthropic (gemini/openai detected from API keys if omitted)")
	pf.StringVar(&a.flags.model, "model", "", "model ID (provider default if omitted)")
	pf.StringVar(&a.flags.apiKey, "api-key", "", "API key for the selected provider")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(
		newChatCmd(a),
		newInteractiveCmd(a),
		newMCPCmd(a),
		newCurrencyCmd(a),
		newJWTCmd(a),
		newNotifyCmd(a),
		newPRCmd(a),
		newCalendarCmd(a),
		newPomodoroCmd(a),
		newScheduleCmd(a),
	)
	return cmd
}

// setup resolves configuration and logging once per process. Commands
// annotated with logToFile log to bot.log in the state directory instead of
// stderr.
func (a *app) setup(cmd *cobra.Command) error {
	getenv := a.getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	cfg, err := loadConfig(a.flags, getenv)
	if err != nil {
		return err
	}
	out := a.stderr
	if _, ok := cmd.Annotations[logToFile]; ok {
		if out, err = openLogFile(cfg.StateDir); err != nil {
			return err
		}
	}
	logger, err := newLogger(out, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	if a.provider == nil {
		a.provider = func(ctx context.Context) (bot.Provider, error) {
			return resolveProvider(ctx, a.cfg, a.flags.apiKey)
		}
	}
	if a.deps == nil {
		d, err := a.defaultDeps()
		if err != nil {
			return err
		}
		a.deps = &d
	}
	return nil
}

func (a *app) defaultDeps() (builtin.Deps, error) {
	gh, err := github.New(a.cfg.GitHubToken, github.WithLogger(a.logger))
	if err != nil {
		return builtin.Deps{}, err
	}
	exe, err := os.Executable()
	if err != nil {
		return builtin.Deps{}, fmt.Errorf("locate executable: %w", err)
	}
	childArgs := []string{"pomodoro", "run"}
	if a.flags.configPath != "" {
		childArgs = append(childArgs, "--config", a.flags.configPath)
	}
	spawner := &pomodoro.ExecSpawner{
		Path:    exe,
		Args:    childArgs,
		LogPath: filepath.Join(a.cfg.StateDir, "pomodoro.log"),
	}
	return builtin.Deps{
		Repository:          git.Open("", git.WithLogger(a.logger)),
		PullRequests:        gh,
		Rates:               vcb.New(vcb.WithURL(a.cfg.RatesURL)),
		Tokens:              jwt.Decoder{},
		Notifier:            beeep.New(),
		Calendar:            &lazyCalendar{cfg: a.cfg, out: a.stderr},
		Pomodoro:            pomodoro.NewController(a.cfg.PIDFile, spawner, pomodoro.OSProcessTable{}, pomodoro.WithLogger(a.logger)),
		DefaultTargetBranch: a.cfg.DefaultTargetBranch,
	}, nil
}

// tools registers the built-in tools against the app's services.
func (a *app) tools() (*bot.Registry, *bot.Executor, error) {
	r := bot.NewRegistry()
	if err := builtin.Register(r, *a.deps); err != nil {
		return nil, nil, err
	}
	return r, bot.NewExecutor(r), nil
}

// invoke runs one tool directly and prints its result. A failed result is
// returned as the command's error.
func (a *app) invoke(ctx context.Context, name string, args bot.Args) error {
	_, exec, err := a.tools()
	if err != nil {
		return err
	}
	a.logger.Debug("invoking tool", "tool", name)
	res := exec.Execute(ctx, bot.ToolCall{ID: uuid.NewString(), Name: name, Arguments: args})
	if !res.OK {
		return errors.New(res.Error)
	}
	return a.printer().Result(name, res)
}

func (a *app) printer() *console.Printer {
	return console.New(a.stdout)
}

// lazyCalendar defers the OAuth flow until a calendar tool is used.
type lazyCalendar struct {
	cfg bot.Config
	out io.Writer

	mu  sync.Mutex
	svc bot.CalendarService
}

// Interface compliance check.
var _ bot.CalendarService = (*lazyCalendar)(nil)

func (c *lazyCalendar) service(ctx context.Context) (bot.CalendarService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.svc != nil {
		return c.svc, nil
	}
	oc, err := calendar.LoadOAuthConfig(c.cfg.GoogleCredentials, c.cfg.AuthAddr)
	if err != nil {
		return nil, err
	}
	// The client outlives the call that created it, so token refreshes must
	// not be tied to that call's cancellation.
	hc, err := calendar.HTTPClient(context.WithoutCancel(ctx), oc, c.cfg.GoogleToken, &calendar.Authorizer{Config: oc, Out: c.out})
	if err != nil {
		return nil, err
	}
	svc, err := calendar.New(ctx, hc)
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return svc, nil
}

func (c *lazyCalendar) Meetings(ctx context.Context, from, to time.Time) ([]bot.Meeting, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Meetings(ctx, from, to)
}

func (c *lazyCalendar) AddMeeting(ctx context.Context, m bot.NewMeeting) (bot.CreatedMeeting, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return bot.CreatedMeeting{}, err
	}
	return svc.AddMeeting(ctx, m)
}
