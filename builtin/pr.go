package builtin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/botkit/bot"
)

const defaultPRBody = "Please review this PR."

var errNoOpenPRs = errors.New("No open pull requests found.")

// CreatePRTool returns the definition of create_pr.
func CreatePRTool() bot.Tool {
	return bot.Tool{
		Name:        "create_pr",
		Description: "Create a GitHub pull request from the current branch.",
		Parameters: []bot.Parameter{
			{Name: "target_branch", Type: bot.ParamString, Description: "The branch to merge into (default: develop)"},
			{Name: "source_branch", Type: bot.ParamString, Description: "The branch to merge from (default: the current branch)"},
			{Name: "title", Type: bot.ParamString, Description: "The title of the pull request (auto-generated if not provided)"},
			{Name: "body", Type: bot.ParamString, Description: "Semicolon-separated list of changes for the description"},
			{Name: "reviewers", Type: bot.ParamString, Description: "Comma-separated list of reviewer usernames"},
		},
	}
}

type createdPR struct {
	URL    string `json:"pr_url"`
	Number int    `json:"pr_number"`
}

func createPR(repo bot.Repository, prs bot.PullRequestService, defaultTarget string) bot.HandlerFunc {
	return func(ctx context.Context, args bot.Args) (any, error) {
		origin, err := repo.Origin(ctx)
		if err != nil {
			return nil, err
		}
		source := args.String("source_branch", "")
		if source == "" {
			if source, err = repo.CurrentBranch(ctx); err != nil {
				return nil, err
			}
		}
		target := args.String("target_branch", "")
		if target == "" {
			target = defaultTarget
		}
		for _, b := range []string{source, target} {
			if err := bot.ValidateBranchName(b); err != nil {
				return nil, err
			}
		}
		if source == target {
			return nil, fmt.Errorf("source branch (%s) and target branch (%s) cannot be the same: %w", source, target, bot.ErrValidation)
		}
		title := args.String("title", "")
		if title == "" {
			title = bot.TitleFromBranch(source)
		}
		body := bot.FormatPRBody(args.String("body", ""))
		if body == "" {
			body = defaultPRBody
		}

		if err := repo.Fetch(ctx); err != nil {
			return nil, err
		}
		remote, err := repo.RemoteBranches(ctx)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(remote, "origin/"+target) {
			return nil, fmt.Errorf("target branch '%s' does not exist on the remote repository: %w", target, bot.ErrValidation)
		}
		if err := repo.Push(ctx, source); err != nil {
			return nil, err
		}
		pr, err := prs.Create(ctx, bot.NewPullRequest{
			Repo:      origin,
			Title:     title,
			Body:      body,
			Head:      source,
			Base:      target,
			Reviewers: args.Strings("reviewers"),
		})
		if err != nil {
			return nil, err
		}
		return createdPR{URL: pr.URL, Number: pr.Number}, nil
	}
}

// ApprovePRTool returns the definition of approve_pr.
func ApprovePRTool() bot.Tool {
	return bot.Tool{
		Name:        "approve_pr",
		Description: "Approve a GitHub pull request.",
		Parameters: []bot.Parameter{
			{Name: "pr_number", Type: bot.ParamNumber, Description: "The pull request number to approve (if not provided, approves the most recent open PR)"},
			{Name: "comment", Type: bot.ParamString, Description: `Review comment (default: "` + bot.DefaultApproveComment + `")`},
		},
	}
}

func approvePR(repo bot.Repository, prs bot.PullRequestService) bot.HandlerFunc {
	return func(ctx context.Context, args bot.Args) (any, error) {
		origin, err := repo.Origin(ctx)
		if err != nil {
			return nil, err
		}
		var number int
		if args.Has("pr_number") {
			if number, err = args.Int("pr_number"); err != nil {
				return nil, err
			}
		}
		if number == 0 {
			open, err := prs.ListOpen(ctx, origin)
			if err != nil {
				return nil, err
			}
			if len(open) == 0 {
				return nil, errNoOpenPRs
			}
			latest := open[0]
			for _, pr := range open[1:] {
				if pr.CreatedAt.After(latest.CreatedAt) {
					latest = pr
				}
			}
			number = latest.Number
		}
		comment := args.String("comment", "")
		if comment == "" {
			comment = bot.DefaultApproveComment
		}
		if err := prs.Approve(ctx, origin, number, comment); err != nil {
			return nil, err
		}
		return message{Message: fmt.Sprintf("Pull request #%d approved successfully!", number)}, nil
	}
}

// ListOpenPRsTool returns the definition of list_open_prs.
func ListOpenPRsTool() bot.Tool {
	return bot.Tool{
		Name:        "list_open_prs",
		Description: "List all open pull requests in the current repository.",
	}
}

type prItem struct {
	Number  int       `json:"number"`
	Title   string    `json:"title"`
	Author  string    `json:"author"`
	Created time.Time `json:"created"`
	URL     string    `json:"url"`
}

type prList struct {
	Count int      `json:"count"`
	PRs   []prItem `json:"prs"`
}

func listOpenPRs(repo bot.Repository, prs bot.PullRequestService) bot.HandlerFunc {
	return func(ctx context.Context, _ bot.Args) (any, error) {
		origin, err := repo.Origin(ctx)
		if err != nil {
			return nil, err
		}
		open, err := prs.ListOpen(ctx, origin)
		if err != nil {
			return nil, err
		}
		out := prList{Count: len(open), PRs: make([]prItem, len(open))}
		for i, pr := range open {
			out.PRs[i] = prItem{Number: pr.Number, Title: pr.Title, Author: pr.Author, Created: pr.CreatedAt, URL: pr.URL}
		}
		return out, nil
	}
}

// ListMyPRsTool returns the definition of list_my_prs.
func ListMyPRsTool() bot.Tool {
	return bot.Tool{
		Name:        "list_my_prs",
		Description: "List open pull requests across all repositories that request your review.",
	}
}

type repoPRs struct {
	Repo string   `json:"repo"`
	PRs  []prItem `json:"prs"`
}

type reviewQueue struct {
	User         string    `json:"user"`
	Count        int       `json:"count"`
	Repositories []repoPRs `json:"repositories"`
	Summary      string    `json:"summary,omitempty"`
}

func listMyPRs(prs bot.PullRequestService) bot.HandlerFunc {
	return func(ctx context.Context, _ bot.Args) (any, error) {
		user, err := prs.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		found, err := prs.ListReviewRequested(ctx, user)
		if err != nil {
			return nil, err
		}
		out := reviewQueue{User: user, Count: len(found), Repositories: []repoPRs{}}
		if len(found) == 0 {
			out.Summary = "No pull requests found for you to review across all repositories."
			return out, nil
		}
		byRepo := make(map[string][]prItem)
		for _, pr := range found {
			byRepo[pr.Repo] = append(byRepo[pr.Repo], prItem{
				Number: pr.Number, Title: pr.Title, Author: pr.Author, Created: pr.CreatedAt, URL: pr.URL,
			})
		}
		names := make([]string, 0, len(byRepo))
		for name := range byRepo {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out.Repositories = append(out.Repositories, repoPRs{Repo: name, PRs: byRepo[name]})
		}
		return out, nil
	}
}

// ListMyReposTool returns the definition of list_my_repos.
func ListMyReposTool() bot.Tool {
	return bot.Tool{
		Name:        "list_my_repos",
		Description: "List all repositories you own, collaborate on, or can access through an organization.",
	}
}

type repoItem struct {
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
}

type repoListing struct {
	User         string     `json:"user"`
	Total        int        `json:"total"`
	Owned        []repoItem `json:"owned"`
	Collaborated []repoItem `json:"collaborated"`
	Organization []repoItem `json:"organization"`
}

func listMyRepos(prs bot.PullRequestService) bot.HandlerFunc {
	return func(ctx context.Context, _ bot.Args) (any, error) {
		user, err := prs.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		repos, err := prs.ListRepositories(ctx)
		if err != nil {
			return nil, err
		}
		out := repoListing{
			User:         user,
			Total:        len(repos),
			Owned:        []repoItem{},
			Collaborated: []repoItem{},
			Organization: []repoItem{},
		}
		for _, r := range repos {
			item := repoItem{FullName: r.FullName, Private: r.Private}
			switch r.Affiliation {
			case bot.AffiliationOwner:
				out.Owned = append(out.Owned, item)
			case bot.AffiliationCollaborator:
				out.Collaborated = append(out.Collaborated, item)
			default:
				out.Organization = append(out.Organization, item)
			}
		}
		return out, nil
	}
}
