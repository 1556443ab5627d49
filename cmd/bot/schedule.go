package main

import (
	"fmt"
	"time"

	"github.com/botkit/bot/schedule"
	"github.com/spf13/cobra"
)

func newScheduleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the monthly exchange-rate alert until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := schedule.New(schedule.WithLogger(a.logger))
			alert := &schedule.RateAlert{
				Rates:    a.deps.Rates,
				Notifier: a.deps.Notifier,
				Currency: a.cfg.RateAlertCurrency,
			}
			if err := s.Add(a.cfg.RateAlertSpec, alert); err != nil {
				return err
			}
			next, err := schedule.Next(a.cfg.RateAlertSpec, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Rate alert scheduled (%s). Next run: %s. Press Ctrl+C to stop.\n",
				a.cfg.RateAlertSpec, next.Format(time.RFC1123))
			return s.Run(cmd.Context())
		},
	}
}
