package mock

import (
	"context"
	"time"

	"github.com/botkit/bot"
)

// Interface compliance checks.
var (
	_ bot.RateService        = (*RateService)(nil)
	_ bot.PullRequestService = (*PullRequestService)(nil)
	_ bot.Repository         = (*Repository)(nil)
	_ bot.CalendarService    = (*CalendarService)(nil)
	_ bot.Notifier           = (*Notifier)(nil)
	_ bot.PomodoroService    = (*PomodoroService)(nil)
)

// RateService is a test double for bot.RateService.
type RateService struct {
	RatesFn func(ctx context.Context) (bot.RateTable, error)
}

// Rates delegates to RatesFn.
func (s *RateService) Rates(ctx context.Context) (bot.RateTable, error) {
	return s.RatesFn(ctx)
}

// PullRequestService is a test double for bot.PullRequestService.
// Set the function fields for the methods you need.
type PullRequestService struct {
	CurrentUserFn         func(ctx context.Context) (string, error)
	CreateFn              func(ctx context.Context, pr bot.NewPullRequest) (bot.PullRequest, error)
	GetFn                 func(ctx context.Context, repo bot.Repo, number int) (bot.PullRequest, error)
	ApproveFn             func(ctx context.Context, repo bot.Repo, number int, comment string) error
	ListOpenFn            func(ctx context.Context, repo bot.Repo) ([]bot.PullRequest, error)
	ListReviewRequestedFn func(ctx context.Context, user string) ([]bot.PullRequest, error)
	ListRepositoriesFn    func(ctx context.Context) ([]bot.RepoSummary, error)
	ListCollaboratorsFn   func(ctx context.Context, repo bot.Repo) ([]string, error)
}

// CurrentUser delegates to CurrentUserFn.
func (s *PullRequestService) CurrentUser(ctx context.Context) (string, error) {
	return s.CurrentUserFn(ctx)
}

// Create delegates to CreateFn.
func (s *PullRequestService) Create(ctx context.Context, pr bot.NewPullRequest) (bot.PullRequest, error) {
	return s.CreateFn(ctx, pr)
}

// Get delegates to GetFn.
func (s *PullRequestService) Get(ctx context.Context, repo bot.Repo, number int) (bot.PullRequest, error) {
	return s.GetFn(ctx, repo, number)
}

// Approve delegates to ApproveFn.
func (s *PullRequestService) Approve(ctx context.Context, repo bot.Repo, number int, comment string) error {
	return s.ApproveFn(ctx, repo, number, comment)
}

// ListOpen delegates to ListOpenFn.
func (s *PullRequestService) ListOpen(ctx context.Context, repo bot.Repo) ([]bot.PullRequest, error) {
	return s.ListOpenFn(ctx, repo)
}

// ListReviewRequested delegates to ListReviewRequestedFn.
func (s *PullRequestService) ListReviewRequested(ctx context.Context, user string) ([]bot.PullRequest, error) {
	return s.ListReviewRequestedFn(ctx, user)
}

// ListRepositories delegates to ListRepositoriesFn.
func (s *PullRequestService) ListRepositories(ctx context.Context) ([]bot.RepoSummary, error) {
	return s.ListRepositoriesFn(ctx)
}

// ListCollaborators delegates to ListCollaboratorsFn.
func (s *PullRequestService) ListCollaborators(ctx context.Context, repo bot.Repo) ([]string, error) {
	return s.ListCollaboratorsFn(ctx, repo)
}

// Repository is a test double for bot.Repository.
type Repository struct {
	CurrentBranchFn  func(ctx context.Context) (string, error)
	OriginFn         func(ctx context.Context) (bot.Repo, error)
	FetchFn          func(ctx context.Context) error
	RemoteBranchesFn func(ctx context.Context) ([]string, error)
	PushFn           func(ctx context.Context, branch string) error
	DiffStatFn       func(ctx context.Context, since string) (string, error)
}

// CurrentBranch delegates to CurrentBranchFn.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	return r.CurrentBranchFn(ctx)
}

// Origin delegates to OriginFn.
func (r *Repository) Origin(ctx context.Context) (bot.Repo, error) {
	return r.OriginFn(ctx)
}

// Fetch delegates to FetchFn. A nil FetchFn succeeds.
func (r *Repository) Fetch(ctx context.Context) error {
	if r.FetchFn == nil {
		return nil
	}
	return r.FetchFn(ctx)
}

// RemoteBranches delegates to RemoteBranchesFn.
func (r *Repository) RemoteBranches(ctx context.Context) ([]string, error) {
	return r.RemoteBranchesFn(ctx)
}

// Push delegates to PushFn. A nil PushFn succeeds.
func (r *Repository) Push(ctx context.Context, branch string) error {
	if r.PushFn == nil {
		return nil
	}
	return r.PushFn(ctx, branch)
}

// DiffStat delegates to DiffStatFn.
func (r *Repository) DiffStat(ctx context.Context, since string) (string, error) {
	return r.DiffStatFn(ctx, since)
}

// CalendarService is a test double for bot.CalendarService.
type CalendarService struct {
	MeetingsFn   func(ctx context.Context, from, to time.Time) ([]bot.Meeting, error)
	AddMeetingFn func(ctx context.Context, m bot.NewMeeting) (bot.CreatedMeeting, error)
}

// Meetings delegates to MeetingsFn.
func (s *CalendarService) Meetings(ctx context.Context, from, to time.Time) ([]bot.Meeting, error) {
	return s.MeetingsFn(ctx, from, to)
}

// AddMeeting delegates to AddMeetingFn.
func (s *CalendarService) AddMeeting(ctx context.Context, m bot.NewMeeting) (bot.CreatedMeeting, error) {
	return s.AddMeetingFn(ctx, m)
}

// Notifier is a test double for bot.Notifier.
type Notifier struct {
	NotifyFn func(ctx context.Context, n bot.Notification) error
}

// Notify delegates to NotifyFn.
func (n *Notifier) Notify(ctx context.Context, note bot.Notification) error {
	return n.NotifyFn(ctx, note)
}

// PomodoroService is a test double for bot.PomodoroService.
type PomodoroService struct {
	StartFn func(ctx context.Context) (bot.PomodoroStatus, error)
	StopFn  func(ctx context.Context) (bot.PomodoroStatus, error)
}

// Start delegates to StartFn.
func (s *PomodoroService) Start(ctx context.Context) (bot.PomodoroStatus, error) {
	return s.StartFn(ctx)
}

// Stop delegates to StopFn.
func (s *PomodoroService) Stop(ctx context.Context) (bot.PomodoroStatus, error) {
	return s.StopFn(ctx)
}
