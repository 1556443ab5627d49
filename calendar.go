package bot

import (
	"context"
	"time"
)

// Meeting is a calendar event as shown to the user and the model.
type Meeting struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	AllDay      bool     `json:"-"`
	HangoutLink string   `json:"hangoutLink,omitempty"`
	ZoomLink    string   `json:"zoomLink,omitempty"`
	Attendees   []string `json:"attendees"`
}

// NewMeeting describes a calendar event to create.
type NewMeeting struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// CreatedMeeting is the result of creating an event.
type CreatedMeeting struct {
	Summary  string `json:"summary"`
	HTMLLink string `json:"htmlLink"`
	EventID  string `json:"eventId"`
}

// CalendarService reads and writes the user's primary calendar.
type CalendarService interface {
	Meetings(ctx context.Context, from, to time.Time) ([]Meeting, error)
	AddMeeting(ctx context.Context, m NewMeeting) (CreatedMeeting, error)
}

// WeekRange returns Monday 00:00 through Sunday 23:59:59.999 of the week
// containing now, in now's location.
func WeekRange(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	offset := int(today.Weekday()) - 1
	if today.Weekday() == time.Sunday {
		offset = 6
	}
	monday := today.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday, endOfDay(sunday)
}

// DayRange returns 00:00 through 23:59:59.999 of the day containing now.
func DayRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, endOfDay(start)
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
}

// Agenda is the shape meetings are reported in to the model.
type Agenda struct {
	EventCount int       `json:"event_count,omitempty"`
	Events     []Meeting `json:"events"`
	Summary    string    `json:"summary,omitempty"`
}

// NewAgenda wraps meetings for reporting.
func NewAgenda(meetings []Meeting) Agenda {
	if len(meetings) == 0 {
		return Agenda{Events: []Meeting{}, Summary: "No upcoming events found."}
	}
	return Agenda{EventCount: len(meetings), Events: meetings}
}
