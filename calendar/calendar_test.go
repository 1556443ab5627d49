package calendar_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/botkit/bot"
	"github.com/botkit/bot/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newClient(t *testing.T, h http.Handler) *calendar.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := calendar.New(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c
}

func TestClient_Meetings(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 18, 23, 59, 59, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2026-10-12T00:00:00Z", q.Get("timeMin"))
		assert.Equal(t, "2026-10-18T23:59:59Z", q.Get("timeMax"))
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "startTime", q.Get("orderBy"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []map[string]any{
			{
				"summary":     "Standup",
				"start":       map[string]any{"dateTime": "2026-10-13T09:00:00+07:00"},
				"end":         map[string]any{"dateTime": "2026-10-13T09:15:00+07:00"},
				"hangoutLink": "https://meet.google.com/abc-defg-hij",
				"attendees":   []map[string]any{{"email": "a@example.com"}, {"email": "b@example.com"}},
			},
			{
				"summary": "Offsite",
				"start":   map[string]any{"date": "2026-10-16"},
				"end":     map[string]any{"date": "2026-10-17"},
			},
		}})
	})

	meetings, err := newClient(t, mux).Meetings(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	assert.Equal(t, "Standup", meetings[0].Summary)
	assert.Equal(t, "2026-10-13T09:00:00+07:00", meetings[0].Start)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, meetings[0].Attendees)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", meetings[0].HangoutLink)

	assert.True(t, meetings[1].AllDay)
	assert.Equal(t, "2026-10-16", meetings[1].Start)
	assert.Equal(t, []string{}, meetings[1].Attendees)
}

func TestClient_Meetings_UpstreamError(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendars/primary/events", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":401,"message":"invalid_grant"}}`, http.StatusUnauthorized)
	})
	_, err := newClient(t, mux).Meetings(context.Background(), time.Now(), time.Now())
	assert.ErrorIs(t, err, bot.ErrUpstream)
}

func TestClient_AddMeeting(t *testing.T) {
	t.Parallel()

	var got gcal.Event
	mux := http.NewServeMux()
	mux.HandleFunc("POST /calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "evt123",
			"htmlLink": "https://calendar.google.com/event?eid=evt123",
			"summary":  got.Summary,
		})
	})

	ict := time.FixedZone("ICT", 7*60*60)
	created, err := newClient(t, mux).AddMeeting(context.Background(), bot.NewMeeting{
		Summary:   "Design review",
		Start:     time.Date(2026, 10, 20, 14, 0, 0, 0, ict),
		End:       time.Date(2026, 10, 20, 15, 0, 0, 0, ict),
		Attendees: []string{"a@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, bot.CreatedMeeting{
		Summary:  "Event created successfully.",
		HTMLLink: "https://calendar.google.com/event?eid=evt123",
		EventID:  "evt123",
	}, created)

	assert.Equal(t, "Design review", got.Summary)
	assert.Equal(t, "2026-10-20T07:00:00Z", got.Start.DateTime)
	assert.Equal(t, "UTC", got.Start.TimeZone)
	require.Len(t, got.Attendees, 1)
	assert.Equal(t, "a@example.com", got.Attendees[0].Email)
}

func TestZoomLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event *gcal.Event
		want  string
	}{
		{
			name: "conference notes with google redirect",
			event: &gcal.Event{ConferenceData: &gcal.ConferenceData{
				Notes: `Join: <a href="https://www.google.com/url?q=https://acme.zoom.us/j/123?pwd%3Dabc&amp;sa=D">Zoom</a>`,
			}},
			want: "https://acme.zoom.us/j/123?pwd=abc",
		},
		{
			name: "conference notes with entities",
			event: &gcal.Event{ConferenceData: &gcal.ConferenceData{
				Notes: `<a href="https://acme.zoom.us/j/9?a=1&amp;b=2">join</a>`,
			}},
			want: "https://acme.zoom.us/j/9?a=1&b=2",
		},
		{
			name:  "description",
			event: &gcal.Event{Description: "Dial in at https://us02web.zoom.us/j/555 please"},
			want:  "https://us02web.zoom.us/j/555",
		},
		{
			name:  "none",
			event: &gcal.Event{Description: "in person"},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, calendar.ZoomLink(tt.event))
		})
	}
}
