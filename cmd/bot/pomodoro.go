package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/botkit/bot/beeep"
	"github.com/botkit/bot/pomodoro"
	"github.com/spf13/cobra"
)

func newPomodoroCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pomodoro",
		Short: "Run a background Pomodoro timer with desktop notifications",
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Start the timer in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.deps.Pomodoro.Start(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, st.Message)
			return err
		},
	}
	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the background timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.deps.Pomodoro.Stop(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, st.Message)
			return err
		},
	}
	// run is the background process itself; start re-executes the binary
	// with these arguments.
	run := &cobra.Command{
		Use:    "run",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stopSignals := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stopSignals()
			timer := pomodoro.NewTimer(beeep.New(),
				pomodoro.WithDurations(a.cfg.WorkDuration, a.cfg.BreakDuration),
				pomodoro.WithTimerLogger(a.logger))
			a.logger.Info("pomodoro timer running", "work", a.cfg.WorkDuration, "break", a.cfg.BreakDuration)
			return pomodoro.Serve(ctx, a.stdout, timer)
		},
	}

	cmd.AddCommand(start, stop, run)
	return cmd
}
