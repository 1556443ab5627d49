package main

import (
	"strings"

	"github.com/botkit/bot"
	"github.com/spf13/cobra"
)

func newCalendarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Read and add Google Calendar events",
	}

	week := &cobra.Command{
		Use:   "week",
		Short: "List this week's meetings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.invoke(cmd.Context(), "list_weekly_meetings", bot.Args{})
		},
	}
	today := &cobra.Command{
		Use:   "today",
		Short: "List today's meetings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.invoke(cmd.Context(), "list_today_meetings", bot.Args{})
		},
	}

	var summary, start, end, description, location string
	var attendees []string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an event to the primary calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := bot.Args{"summary": summary, "start_time": start, "end_time": end}
			setIf(args, "description", description)
			setIf(args, "location", location)
			setIf(args, "attendees", strings.Join(attendees, ","))
			return a.invoke(cmd.Context(), "add_calendar_event", args)
		},
	}
	f := add.Flags()
	f.StringVar(&summary, "summary", "", "event title")
	f.StringVar(&start, "start", "", `start time, e.g. "2026-10-20T14:00" or RFC 3339`)
	f.StringVar(&end, "end", "", "end time, same formats as --start")
	f.StringVar(&description, "description", "", "event description")
	f.StringVar(&location, "location", "", "event location")
	f.StringSliceVar(&attendees, "attendees", nil, "attendee emails")
	for _, name := range []string{"summary", "start", "end"} {
		_ = add.MarkFlagRequired(name)
	}

	cmd.AddCommand(week, today, add)
	return cmd
}
