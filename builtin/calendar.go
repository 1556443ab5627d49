package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/botkit/bot"
)

// ListWeeklyMeetingsTool returns the definition of list_weekly_meetings.
func ListWeeklyMeetingsTool() bot.Tool {
	return bot.Tool{
		Name:        "list_weekly_meetings",
		Description: "List all Google Calendar meetings for this week.",
	}
}

// ListTodayMeetingsTool returns the definition of list_today_meetings.
func ListTodayMeetingsTool() bot.Tool {
	return bot.Tool{
		Name:        "list_today_meetings",
		Description: "List all Google Calendar meetings for today.",
	}
}

func listMeetings(cal bot.CalendarService, now func() time.Time, span func(time.Time) (time.Time, time.Time)) bot.HandlerFunc {
	return func(ctx context.Context, _ bot.Args) (any, error) {
		from, to := span(now())
		meetings, err := cal.Meetings(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return bot.NewAgenda(meetings), nil
	}
}

// AddCalendarEventTool returns the definition of add_calendar_event.
func AddCalendarEventTool() bot.Tool {
	return bot.Tool{
		Name:        "add_calendar_event",
		Description: "Add a new event to the Google Calendar.",
		Parameters: []bot.Parameter{
			{Name: "summary", Type: bot.ParamString, Description: "Event summary or title", Required: true},
			{Name: "start_time", Type: bot.ParamString, Description: "Event start time in ISO 8601 format", Required: true},
			{Name: "end_time", Type: bot.ParamString, Description: "Event end time in ISO 8601 format", Required: true},
			{Name: "description", Type: bot.ParamString, Description: "Event description"},
			{Name: "location", Type: bot.ParamString, Description: "Event location"},
			{Name: "attendees", Type: bot.ParamString, Description: "Comma-separated list of attendee emails"},
		},
	}
}

func addCalendarEvent(cal bot.CalendarService) bot.HandlerFunc {
	return func(ctx context.Context, args bot.Args) (any, error) {
		start, err := ParseTime(args.String("start_time", ""))
		if err != nil {
			return nil, fmt.Errorf("start_time: %w", err)
		}
		end, err := ParseTime(args.String("end_time", ""))
		if err != nil {
			return nil, fmt.Errorf("end_time: %w", err)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("end_time must be after start_time: %w", bot.ErrValidation)
		}
		return cal.AddMeeting(ctx, bot.NewMeeting{
			Summary:     args.String("summary", ""),
			Description: args.String("description", ""),
			Location:    args.String("location", ""),
			Start:       start,
			End:         end,
			Attendees:   args.Strings("attendees"),
		})
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTime accepts ISO 8601 timestamps. Values without an offset are read
// in local time.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 time: %w", s, bot.ErrValidation)
}
