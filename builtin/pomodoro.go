package builtin

import (
	"context"

	"github.com/botkit/bot"
)

// StartPomodoroTool returns the definition of start_pomodoro.
func StartPomodoroTool() bot.Tool {
	return bot.Tool{
		Name:        "start_pomodoro",
		Description: "Start a Pomodoro timer that runs in the background and notifies at every work and break transition.",
	}
}

// StopPomodoroTool returns the definition of stop_pomodoro.
func StopPomodoroTool() bot.Tool {
	return bot.Tool{
		Name:        "stop_pomodoro",
		Description: "Stop the running Pomodoro timer.",
	}
}

func startPomodoro(p bot.PomodoroService) bot.HandlerFunc {
	return func(ctx context.Context, _ bot.Args) (any, error) {
		return p.Start(ctx)
	}
}

func stopPomodoro(p bot.PomodoroService) bot.HandlerFunc {
	return func(ctx context.Context, _ bot.Args) (any, error) {
		return p.Stop(ctx)
	}
}
