// Package calendar implements [bot.CalendarService] on the Google Calendar
// API, with a loopback OAuth flow and a cached token file.
package calendar

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/botkit/bot"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const primary = "primary"

// Interface compliance check.
var _ bot.CalendarService = (*Client)(nil)

// Client reads and writes the user's primary calendar.
type Client struct {
	svc *gcal.Service
}

// New creates a [Client] using an authorized HTTP client. Extra options
// such as option.WithEndpoint are passed to the API client.
func New(ctx context.Context, hc *http.Client, opts ...option.ClientOption) (*Client, error) {
	svc, err := gcal.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Meetings returns single events between from and to, ordered by start.
func (c *Client) Meetings(ctx context.Context, from, to time.Time) ([]bot.Meeting, error) {
	res, err := c.svc.Events.List(primary).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: list events: %v: %w", err, bot.ErrUpstream)
	}
	out := make([]bot.Meeting, 0, len(res.Items))
	for _, e := range res.Items {
		out = append(out, convertEvent(e))
	}
	return out, nil
}

// AddMeeting inserts an event. Times are sent in UTC.
func (c *Client) AddMeeting(ctx context.Context, m bot.NewMeeting) (bot.CreatedMeeting, error) {
	ev := &gcal.Event{
		Summary:     m.Summary,
		Description: m.Description,
		Location:    m.Location,
		Start:       &gcal.EventDateTime{DateTime: m.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: m.End.UTC().Format(time.RFC3339), TimeZone: "UTC"},
	}
	for _, email := range m.Attendees {
		ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: email})
	}
	created, err := c.svc.Events.Insert(primary, ev).Context(ctx).Do()
	if err != nil {
		return bot.CreatedMeeting{}, fmt.Errorf("calendar: insert event: %v: %w", err, bot.ErrUpstream)
	}
	return bot.CreatedMeeting{
		Summary:  "Event created successfully.",
		HTMLLink: created.HtmlLink,
		EventID:  created.Id,
	}, nil
}

func convertEvent(e *gcal.Event) bot.Meeting {
	m := bot.Meeting{
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		HangoutLink: e.HangoutLink,
		ZoomLink:    ZoomLink(e),
		Attendees:   []string{},
	}
	if e.Start != nil {
		m.Start = e.Start.DateTime
		if m.Start == "" {
			m.Start = e.Start.Date
			m.AllDay = true
		}
	}
	if e.End != nil {
		m.End = e.End.DateTime
		if m.End == "" {
			m.End = e.End.Date
		}
	}
	for _, a := range e.Attendees {
		m.Attendees = append(m.Attendees, a.Email)
	}
	return m
}

var (
	zoomHrefPattern = regexp.MustCompile(`(?i)href="([^"]*zoom\.us[^"]*)"`)
	zoomURLPattern  = regexp.MustCompile(`(?i)https?://\S*zoom\.us/\S*`)
)

// ZoomLink finds a Zoom join URL in the conference notes or the
// description. Google redirect wrappers and HTML entities are undone.
func ZoomLink(e *gcal.Event) string {
	if e.ConferenceData != nil && e.ConferenceData.Notes != "" {
		if m := zoomHrefPattern.FindStringSubmatch(e.ConferenceData.Notes); m != nil {
			link := html.UnescapeString(m[1])
			if strings.Contains(link, "google.com/url?") {
				if u, err := url.Parse(link); err == nil {
					if q := u.Query().Get("q"); q != "" {
						link = q
					}
				}
			}
			return link
		}
	}
	if m := zoomURLPattern.FindString(e.Description); m != "" {
		return m
	}
	return ""
}
