package main

import (
	"context"
	"strings"

	"github.com/botkit/bot"
	"github.com/botkit/bot/agent"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <prompt>",
		Short: "Ask once; the first tool the model picks runs without confirmation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.chat(cmd.Context(), strings.Join(args, " "))
		},
	}
}

// chat runs a single turn: the model's first tool call is executed and its
// result printed, or the direct reply is printed when no tool is chosen.
func (a *app) chat(ctx context.Context, prompt string) error {
	provider, err := a.provider(ctx)
	if err != nil {
		return err
	}
	r, exec, err := a.tools()
	if err != nil {
		return err
	}
	loop := agent.New(provider, exec, agent.WithLogger(a.logger))
	session := bot.NewSession(uuid.NewString(), a.cfg.SystemPrompt)

	out, err := loop.Turn(ctx, session, r.Definitions(), prompt,
		agent.WithCallPolicy(agent.FirstCallOnly),
		agent.WithFollowup(false))
	if err != nil {
		return err
	}

	p := a.printer()
	if len(out.Calls) == 0 {
		return p.Reply(out.Reply)
	}
	for _, c := range out.Calls {
		if err := p.Result(c.Call.Name, c.Result); err != nil {
			return err
		}
	}
	return nil
}
