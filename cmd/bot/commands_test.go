package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/botkit/bot"
	"github.com/botkit/bot/agent"
	"github.com/botkit/bot/builtin"
	"github.com/botkit/bot/mock"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// testApp returns an app wired to doubles. No provider is configured; tests
// that chat set one.
func testApp(d builtin.Deps) *app {
	return &app{
		stdin: strings.NewReader(""),
		deps:  &d,
		provider: func(context.Context) (bot.Provider, error) {
			panic("provider not configured")
		},
	}
}

// execute runs the root command with args against a config file that does
// not exist, and returns what was written to stdout.
func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a.stdout = &out
	a.stderr = io.Discard
	cmd := newRootCmd(a)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.toml")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func rates() *mock.RateService {
	return &mock.RateService{RatesFn: func(context.Context) (bot.RateTable, error) {
		return bot.RateTable{Rates: map[string]bot.Rate{
			"USD": {Code: "USD", Buy: 26000, Transfer: 26030, Sell: 26300},
			"EUR": {Code: "EUR", Buy: 28000, Transfer: 28100, Sell: 29000},
		}}, nil
	}}
}

func reply(blocks ...bot.ContentBlock) *mock.Provider {
	return &mock.Provider{GenerateFn: func(context.Context, bot.Request) (bot.AssistantMessage, error) {
		msg := bot.AssistantMessage{Content: blocks, StopReason: bot.StopEndTurn}
		if len(msg.ToolCalls()) > 0 {
			msg.StopReason = bot.StopToolUse
		}
		return msg, nil
	}}
}

func TestChat(t *testing.T) {
	t.Parallel()

	t.Run("runs the first tool call and prints its result", func(t *testing.T) {
		t.Parallel()
		var executed int
		a := testApp(builtin.Deps{
			Rates: rates(),
			Notifier: &mock.Notifier{NotifyFn: func(context.Context, bot.Notification) error {
				executed++
				return nil
			}},
		})
		provider := reply(
			bot.ToolCallBlock{ID: "1", Name: "convert_currency", Arguments: bot.Args{"amount": 100.0, "from_currency": "USD", "to_currency": "EUR"}},
			bot.ToolCallBlock{ID: "2", Name: "send_notification", Arguments: bot.Args{"message": "done"}},
		)
		a.provider = func(context.Context) (bot.Provider, error) { return provider, nil }

		out, err := execute(t, a, "chat", "convert", "100", "USD", "to", "EUR")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ convert_currency")
		assert.Contains(t, out, `"result": "89.66"`)
		assert.Zero(t, executed, "only the first call runs")
	})

	t.Run("prints a direct reply", func(t *testing.T) {
		t.Parallel()
		a := testApp(builtin.Deps{})
		provider := reply(bot.TextBlock{Text: "Hello! How can I help?"})
		a.provider = func(context.Context) (bot.Provider, error) { return provider, nil }

		out, err := execute(t, a, "chat", "hi")
		require.NoError(t, err)
		assert.Contains(t, out, "Hello! How can I help?")
	})

	t.Run("prompt is required", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, testApp(builtin.Deps{}), "chat")
		assert.Error(t, err)
	})
}

func TestDirectCommands(t *testing.T) {
	t.Parallel()

	t.Run("currency", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, testApp(builtin.Deps{Rates: rates()}), "currency", "100", "-f", "usd", "-t", "eur")
		require.NoError(t, err)
		assert.Contains(t, out, `"result": "89.66"`)
	})

	t.Run("currency rejects a non-number", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, testApp(builtin.Deps{Rates: rates()}), "currency", "lots")
		assert.ErrorIs(t, err, bot.ErrValidation)
	})

	t.Run("a failed tool is the command's error", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, testApp(builtin.Deps{Rates: rates()}), "currency", "5", "-f", "XYZ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "XYZ")
	})

	t.Run("notify", func(t *testing.T) {
		t.Parallel()
		var got bot.Notification
		a := testApp(builtin.Deps{Notifier: &mock.Notifier{NotifyFn: func(_ context.Context, n bot.Notification) error {
			got = n
			return nil
		}}})
		out, err := execute(t, a, "notify", "stand", "up", "--title", "Break")
		require.NoError(t, err)
		assert.Equal(t, bot.Notification{Title: "Break", Message: "stand up"}, got)
		assert.Contains(t, out, "Notification sent successfully!")
	})

	t.Run("pomodoro start and stop print the status message", func(t *testing.T) {
		t.Parallel()
		a := testApp(builtin.Deps{Pomodoro: &mock.PomodoroService{
			StartFn: func(context.Context) (bot.PomodoroStatus, error) {
				return bot.PomodoroStatus{Running: true, PID: 42, Message: "Pomodoro timer started with PID: 42."}, nil
			},
			StopFn: func(context.Context) (bot.PomodoroStatus, error) {
				return bot.PomodoroStatus{PID: 42, Message: "Pomodoro timer stopped."}, nil
			},
		}})
		out, err := execute(t, a, "pomodoro", "start")
		require.NoError(t, err)
		assert.Equal(t, "Pomodoro timer started with PID: 42.\n", out)

		out, err = execute(t, a, "pomodoro", "stop")
		require.NoError(t, err)
		assert.Equal(t, "Pomodoro timer stopped.\n", out)
	})
}

func TestPRCommands(t *testing.T) {
	t.Parallel()

	origin := &mock.Repository{OriginFn: func(context.Context) (bot.Repo, error) {
		return bot.Repo{Owner: "acme", Name: "api"}, nil
	}}

	t.Run("list prints a table", func(t *testing.T) {
		t.Parallel()
		a := testApp(builtin.Deps{Repository: origin, PullRequests: &mock.PullRequestService{
			ListOpenFn: func(_ context.Context, repo bot.Repo) ([]bot.PullRequest, error) {
				assert.Equal(t, "acme/api", repo.FullName())
				return []bot.PullRequest{{
					Number: 7, Title: "Add login", Author: "alice", URL: "https://github.com/acme/api/pull/7",
					CreatedAt: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
				}}, nil
			},
		}})
		out, err := execute(t, a, "pr", "list")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "PR"))
		assert.Equal(t, "#7  Add login  alice   2026-10-14  https://github.com/acme/api/pull/7", lines[1])
	})

	t.Run("list with nothing open", func(t *testing.T) {
		t.Parallel()
		a := testApp(builtin.Deps{Repository: origin, PullRequests: &mock.PullRequestService{
			ListOpenFn: func(context.Context, bot.Repo) ([]bot.PullRequest, error) { return nil, nil },
		}})
		out, err := execute(t, a, "pr", "list")
		require.NoError(t, err)
		assert.Equal(t, "No open pull requests found.\n", out)
	})

	t.Run("approve by number", func(t *testing.T) {
		t.Parallel()
		var approved int
		a := testApp(builtin.Deps{Repository: origin, PullRequests: &mock.PullRequestService{
			ApproveFn: func(_ context.Context, _ bot.Repo, n int, comment string) error {
				approved = n
				assert.Equal(t, "ship it", comment)
				return nil
			},
		}})
		out, err := execute(t, a, "pr", "approve", "#12", "-m", "ship it")
		require.NoError(t, err)
		assert.Equal(t, 12, approved)
		assert.Contains(t, out, "Pull request #12 approved successfully!")
	})

	t.Run("approve rejects a bad number", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, testApp(builtin.Deps{Repository: origin, PullRequests: &mock.PullRequestService{}}), "pr", "approve", "twelve")
		assert.ErrorIs(t, err, bot.ErrValidation)
	})

	t.Run("reviewers", func(t *testing.T) {
		t.Parallel()
		a := testApp(builtin.Deps{Repository: origin, PullRequests: &mock.PullRequestService{
			ListCollaboratorsFn: func(context.Context, bot.Repo) ([]string, error) { return []string{"alice", "bob"}, nil },
		}})
		out, err := execute(t, a, "pr", "reviewers")
		require.NoError(t, err)
		assert.Equal(t, "REVIEWER\nalice\nbob\n", out)
	})
}

func TestMCPCommand(t *testing.T) {
	t.Parallel()

	a := testApp(builtin.Deps{Rates: rates()})
	a.stdin = strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"convert_currency","arguments":{"amount":100,"from_currency":"USD","to_currency":"EUR"}}}` + "\n")
	out, err := execute(t, a, "mcp")
	require.NoError(t, err)
	assert.Contains(t, out, `"id":1`)
	assert.Contains(t, out, `89.66`)
	assert.NotContains(t, out, "level=", "logs stay off stdout")
}

func TestInteractiveLogging(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("state_dir = \""+stateDir+"\"\n"), 0o600))

	var stderr bytes.Buffer
	a := testApp(builtin.Deps{Rates: rates()})
	a.stdout = io.Discard
	a.stderr = &stderr
	a.flags.configPath = configPath

	cmd, _, err := newRootCmd(a).Find([]string{"interactive"})
	require.NoError(t, err)
	require.NoError(t, a.setup(cmd))

	var rounds int
	provider := &mock.Provider{GenerateFn: func(context.Context, bot.Request) (bot.AssistantMessage, error) {
		rounds++
		if rounds == 1 {
			return bot.AssistantMessage{
				Content: []bot.ContentBlock{bot.ToolCallBlock{ID: "1", Name: "convert_currency",
					Arguments: bot.Args{"amount": 100.0, "from_currency": "USD", "to_currency": "EUR"}}},
				StopReason: bot.StopToolUse,
			}, nil
		}
		return bot.AssistantMessage{Content: []bot.ContentBlock{bot.TextBlock{Text: "About 89.66 EUR."}}, StopReason: bot.StopEndTurn}, nil
	}}
	r, exec, err := a.tools()
	require.NoError(t, err)
	loop := agent.New(provider, exec, agent.WithLogger(a.logger))
	transcript := filepath.Join(stateDir, "sessions", "s1.json")
	turn := a.interactiveTurn(loop, r.Definitions(), transcript)

	confirm := func(context.Context, bot.ToolCall) (bool, error) { return true, nil }
	err = turn(context.Background(), bot.NewSession("s1", ""), "convert 100 USD to EUR", func(bot.Event) {}, confirm)
	require.NoError(t, err)

	assert.Empty(t, stderr.String(), "the full-screen front end owns the terminal")
	logged, err := os.ReadFile(filepath.Join(stateDir, "bot.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "tool executed")
	assert.FileExists(t, transcript)
}
