// Package builtin provides the developer-assistant tools: source control,
// currency, tokens, notifications, calendar and the Pomodoro timer.
package builtin

import (
	"time"

	"github.com/botkit/bot"
)

// Deps are the services the tools act through. A tool whose service is nil
// is not registered.
type Deps struct {
	Repository   bot.Repository
	PullRequests bot.PullRequestService
	Rates        bot.RateService
	Tokens       bot.TokenDecoder
	Notifier     bot.Notifier
	Calendar     bot.CalendarService
	Pomodoro     bot.PomodoroService

	// DefaultTargetBranch is the base of new pull requests. Default develop.
	DefaultTargetBranch string
	// Now is the clock used for calendar ranges. Default time.Now.
	Now func() time.Time
}

type entry struct {
	tool    bot.Tool
	handler bot.HandlerFunc
	enabled bool
}

// Register adds every tool whose service is configured to r, in catalog
// order.
func Register(r *bot.Registry, d Deps) error {
	if d.DefaultTargetBranch == "" {
		d.DefaultTargetBranch = "develop"
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	git := d.Repository != nil
	gh := d.PullRequests != nil

	entries := []entry{
		{SummarizeCodeChangesTool(), summarizeCodeChanges(d.Repository), git},
		{CreatePRTool(), createPR(d.Repository, d.PullRequests, d.DefaultTargetBranch), git && gh},
		{ApprovePRTool(), approvePR(d.Repository, d.PullRequests), git && gh},
		{ListOpenPRsTool(), listOpenPRs(d.Repository, d.PullRequests), git && gh},
		{ListMyPRsTool(), listMyPRs(d.PullRequests), gh},
		{ListMyReposTool(), listMyRepos(d.PullRequests), gh},
		{ConvertCurrencyTool(), convertCurrency(d.Rates), d.Rates != nil},
		{DecodeJWTTool(), decodeJWT(d.Tokens), d.Tokens != nil},
		{SendNotificationTool(), sendNotification(d.Notifier), d.Notifier != nil},
		{ListWeeklyMeetingsTool(), listMeetings(d.Calendar, d.Now, bot.WeekRange), d.Calendar != nil},
		{ListTodayMeetingsTool(), listMeetings(d.Calendar, d.Now, bot.DayRange), d.Calendar != nil},
		{AddCalendarEventTool(), addCalendarEvent(d.Calendar), d.Calendar != nil},
		{StartPomodoroTool(), startPomodoro(d.Pomodoro), d.Pomodoro != nil},
		{StopPomodoroTool(), stopPomodoro(d.Pomodoro), d.Pomodoro != nil},
	}
	for _, e := range entries {
		if !e.enabled {
			continue
		}
		if err := r.Register(e.tool, e.handler); err != nil {
			return err
		}
	}
	return nil
}

// message is the shape of tools that report a single sentence.
type message struct {
	Message string `json:"message"`
}
