// Package github implements [bot.PullRequestService] on the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/botkit/bot"
	gh "github.com/google/go-github/v68/github"
	"golang.org/x/sync/errgroup"
)

// pageSize matches the single page the host returns per listing.
const pageSize = 100

// Interface compliance check.
var _ bot.PullRequestService = (*Client)(nil)

// Client implements [bot.PullRequestService].
type Client struct {
	gh     *gh.Client
	logger *slog.Logger
}

// Option configures a [Client].
type Option func(*Client) error

// WithBaseURL points the client at another API root. Useful for testing
// with httptest.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("base url: %w", err)
		}
		c.gh.BaseURL = u
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = l.With("component", "github")
		return nil
	}
}

// New creates a [Client] authenticated with token. An empty token makes
// unauthenticated requests.
func New(token string, opts ...Option) (*Client, error) {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	c := &Client{gh: client, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, fmt.Errorf("github: %w", err)
		}
	}
	return c, nil
}

// CurrentUser returns the login of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	u, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", wrap("get authenticated user", err)
	}
	return u.GetLogin(), nil
}

// Create opens a pull request and requests reviews from pr.Reviewers.
func (c *Client) Create(ctx context.Context, pr bot.NewPullRequest) (bot.PullRequest, error) {
	created, _, err := c.gh.PullRequests.Create(ctx, pr.Repo.Owner, pr.Repo.Name, &gh.NewPullRequest{
		Title: gh.Ptr(pr.Title),
		Head:  gh.Ptr(pr.Head),
		Base:  gh.Ptr(pr.Base),
		Body:  gh.Ptr(pr.Body),
	})
	if err != nil {
		return bot.PullRequest{}, wrap("create pull request", err)
	}
	out := convertPullRequest(pr.Repo, created)

	if len(pr.Reviewers) > 0 {
		_, _, err := c.gh.PullRequests.RequestReviewers(ctx, pr.Repo.Owner, pr.Repo.Name, created.GetNumber(), gh.ReviewersRequest{
			Reviewers: pr.Reviewers,
		})
		if err != nil {
			return out, wrap(fmt.Sprintf("request reviewers for #%d", created.GetNumber()), err)
		}
		out.Reviewers = append([]string(nil), pr.Reviewers...)
	}
	c.logger.Info("pull request created", "repo", pr.Repo.FullName(), "number", out.Number)
	return out, nil
}

// Get returns one pull request.
func (c *Client) Get(ctx context.Context, repo bot.Repo, number int) (bot.PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return bot.PullRequest{}, wrap(fmt.Sprintf("get pull request #%d", number), err)
	}
	return convertPullRequest(repo, pr), nil
}

// Approve submits an approving review.
func (c *Client) Approve(ctx context.Context, repo bot.Repo, number int, comment string) error {
	_, _, err := c.gh.PullRequests.CreateReview(ctx, repo.Owner, repo.Name, number, &gh.PullRequestReviewRequest{
		Body:  gh.Ptr(comment),
		Event: gh.Ptr("APPROVE"),
	})
	if err != nil {
		return wrap(fmt.Sprintf("approve pull request #%d", number), err)
	}
	c.logger.Info("pull request approved", "repo", repo.FullName(), "number", number)
	return nil
}

// ListOpen returns the open pull requests of repo, newest first.
func (c *Client) ListOpen(ctx context.Context, repo bot.Repo) ([]bot.PullRequest, error) {
	prs, _, err := c.gh.PullRequests.List(ctx, repo.Owner, repo.Name, &gh.PullRequestListOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: pageSize},
	})
	if err != nil {
		return nil, wrap("list pull requests", err)
	}
	out := make([]bot.PullRequest, len(prs))
	for i, pr := range prs {
		out[i] = convertPullRequest(repo, pr)
	}
	return out, nil
}

// ListReviewRequested searches every repository for open pull requests
// awaiting a review from user.
func (c *Client) ListReviewRequested(ctx context.Context, user string) ([]bot.PullRequest, error) {
	query := fmt.Sprintf("is:open is:pr review-requested:%s archived:false", user)
	res, _, err := c.gh.Search.Issues(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: pageSize},
	})
	if err != nil {
		return nil, wrap("search pull requests", err)
	}
	out := make([]bot.PullRequest, 0, len(res.Issues))
	for _, issue := range res.Issues {
		out = append(out, bot.PullRequest{
			Number:    issue.GetNumber(),
			Title:     issue.GetTitle(),
			Author:    issue.GetUser().GetLogin(),
			Repo:      repoFromAPIURL(issue.GetRepositoryURL()),
			URL:       issue.GetHTMLURL(),
			CreatedAt: issue.GetCreatedAt().Time,
		})
	}
	return out, nil
}

// ListRepositories returns the repositories the user owns, collaborates on
// and can reach through an organization. The three listings are fetched
// concurrently.
func (c *Client) ListRepositories(ctx context.Context) ([]bot.RepoSummary, error) {
	affiliations := []bot.Affiliation{bot.AffiliationOwner, bot.AffiliationCollaborator, bot.AffiliationOrgMember}
	results := make([][]bot.RepoSummary, len(affiliations))

	g, ctx := errgroup.WithContext(ctx)
	for i, aff := range affiliations {
		g.Go(func() error {
			repos, _, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, &gh.RepositoryListByAuthenticatedUserOptions{
				Visibility:  "all",
				Affiliation: string(aff),
				ListOptions: gh.ListOptions{PerPage: pageSize},
			})
			if err != nil {
				return wrap("list "+string(aff)+" repositories", err)
			}
			for _, r := range repos {
				results[i] = append(results[i], bot.RepoSummary{
					FullName:    r.GetFullName(),
					Private:     r.GetPrivate(),
					Affiliation: aff,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []bot.RepoSummary
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// ListCollaborators returns the logins of repo's collaborators.
func (c *Client) ListCollaborators(ctx context.Context, repo bot.Repo) ([]string, error) {
	users, _, err := c.gh.Repositories.ListCollaborators(ctx, repo.Owner, repo.Name, &gh.ListCollaboratorsOptions{
		ListOptions: gh.ListOptions{PerPage: pageSize},
	})
	if err != nil {
		return nil, wrap("list collaborators", err)
	}
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.GetLogin()
	}
	return out, nil
}

func convertPullRequest(repo bot.Repo, pr *gh.PullRequest) bot.PullRequest {
	out := bot.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Author:    pr.GetUser().GetLogin(),
		Repo:      repo.FullName(),
		URL:       pr.GetHTMLURL(),
		Body:      pr.GetBody(),
		CreatedAt: pr.GetCreatedAt().Time,
	}
	for _, u := range pr.RequestedReviewers {
		out.Reviewers = append(out.Reviewers, u.GetLogin())
	}
	return out
}

// repoFromAPIURL turns ".../repos/owner/name" into "owner/name".
func repoFromAPIURL(u string) string {
	parts := strings.Split(strings.TrimRight(u, "/"), "/")
	if len(parts) < 2 {
		return u
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

func wrap(op string, err error) error {
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("github: %s: %w", op, bot.ErrNotFound)
	}
	return fmt.Errorf("github: %s: %v: %w", op, err, bot.ErrUpstream)
}
