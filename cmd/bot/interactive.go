package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/botkit/bot"
	"github.com/botkit/bot/agent"
	bt "github.com/botkit/bot/bubbletea"
	botjson "github.com/botkit/bot/json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newInteractiveCmd(a *app) *cobra.Command {
	var sessionPath string
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Start a conversation; every tool call asks for confirmation",
		Long:    "Start a full-screen conversation. Logs go to bot.log in the state directory.",
		Args:    cobra.NoArgs,
		// The full-screen program owns the terminal.
		Annotations: map[string]string{logToFile: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.interactive(cmd.Context(), sessionPath)
		},
	}
	cmd.Flags().StringVar(&sessionPath, "session", "", "transcript file to resume or create")
	return cmd
}

func (a *app) interactive(ctx context.Context, path string) error {
	provider, err := a.provider(ctx)
	if err != nil {
		return err
	}
	r, exec, err := a.tools()
	if err != nil {
		return err
	}

	session, path, err := a.openSession(path)
	if err != nil {
		return err
	}

	loop := agent.New(provider, exec, agent.WithLogger(a.logger))
	turn := a.interactiveTurn(loop, r.Definitions(), path)
	if err := bt.Run(ctx, bt.New(turn, session, bot.DefaultTheme())); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	if session.Len() > 0 {
		fmt.Fprintf(a.stderr, "Session saved to %s\n", path)
	}
	return nil
}

// interactiveTurn runs every tool call after confirmation, follows up with
// the model and saves the transcript to path after each turn.
func (a *app) interactiveTurn(loop *agent.Loop, defs []bot.Tool, path string) bt.TurnFunc {
	return func(ctx context.Context, s *bot.Session, utterance string, onEvent func(bot.Event), confirm bt.ConfirmFunc) error {
		_, err := loop.Turn(ctx, s, defs, utterance,
			agent.WithCallPolicy(agent.AllCalls),
			agent.WithFollowup(true),
			agent.WithConfirm(agent.ConfirmFunc(confirm)),
			agent.WithEventHandler(onEvent))
		if saveErr := botjson.Save(path, s); saveErr != nil {
			a.logger.Error("saving transcript", "path", path, "error", saveErr)
		}
		return err
	}
}

// openSession resumes the transcript at path, or starts a new one there.
// An empty path starts a new transcript under the state directory.
func (a *app) openSession(path string) (*bot.Session, string, error) {
	if path == "" {
		id := uuid.NewString()
		return bot.NewSession(id, a.cfg.SystemPrompt), filepath.Join(a.cfg.StateDir, "sessions", id+".json"), nil
	}
	s, err := botjson.Load(path)
	switch {
	case err == nil:
		return s, path, nil
	case errors.Is(err, fs.ErrNotExist):
		return bot.NewSession(uuid.NewString(), a.cfg.SystemPrompt), path, nil
	default:
		return nil, "", fmt.Errorf("load session: %w", err)
	}
}
