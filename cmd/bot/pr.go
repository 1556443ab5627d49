package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/botkit/bot"
	"github.com/spf13/cobra"
)

func newPRCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Create, approve and list pull requests",
	}
	cmd.AddCommand(
		newPRCreateCmd(a),
		newPRApproveCmd(a),
		newPRListCmd(a),
		newPRMineCmd(a),
		newPRReposCmd(a),
		newPRReviewersCmd(a),
	)
	return cmd
}

func newPRCreateCmd(a *app) *cobra.Command {
	var target, source, title, body string
	var reviewers []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Push the current branch and open a pull request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := bot.Args{}
			setIf(args, "target_branch", target)
			setIf(args, "source_branch", source)
			setIf(args, "title", title)
			setIf(args, "body", body)
			setIf(args, "reviewers", strings.Join(reviewers, ","))
			return a.invoke(cmd.Context(), "create_pr", args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&target, "target", "t", "", "branch to merge into (default from config)")
	f.StringVarP(&source, "source", "s", "", "branch to merge from (default current branch)")
	f.StringVar(&title, "title", "", "title (derived from the branch name if omitted)")
	f.StringVarP(&body, "body", "b", "", "semicolon-separated list of changes")
	f.StringSliceVarP(&reviewers, "reviewers", "r", nil, "reviewer usernames")
	return cmd
}

func newPRApproveCmd(a *app) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "approve [number]",
		Short: "Approve a pull request, or the most recent open one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targs := bot.Args{}
			if len(args) == 1 {
				n, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
				if err != nil || n <= 0 {
					return fmt.Errorf("pull request number %q is invalid: %w", args[0], bot.ErrValidation)
				}
				targs["pr_number"] = float64(n)
			}
			setIf(targs, "comment", comment)
			return a.invoke(cmd.Context(), "approve_pr", targs)
		},
	}
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "review comment")
	return cmd
}

func newPRListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open pull requests in this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := a.deps.Repository.Origin(ctx)
			if err != nil {
				return err
			}
			prs, err := a.deps.PullRequests.ListOpen(ctx, repo)
			if err != nil {
				return err
			}
			if len(prs) == 0 {
				return a.printer().Empty("No open pull requests found.")
			}
			rows := make([][]string, len(prs))
			for i, pr := range prs {
				rows[i] = []string{"#" + strconv.Itoa(pr.Number), pr.Title, pr.Author, pr.CreatedAt.Format("2006-01-02"), pr.URL}
			}
			return a.printer().Table([]string{"PR", "TITLE", "AUTHOR", "CREATED", "URL"}, rows)
		},
	}
}

func newPRMineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List pull requests awaiting your review across repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			user, err := a.deps.PullRequests.CurrentUser(ctx)
			if err != nil {
				return err
			}
			prs, err := a.deps.PullRequests.ListReviewRequested(ctx, user)
			if err != nil {
				return err
			}
			if len(prs) == 0 {
				return a.printer().Empty("No pull requests found for you to review across all repositories.")
			}
			rows := make([][]string, len(prs))
			for i, pr := range prs {
				rows[i] = []string{pr.Repo, "#" + strconv.Itoa(pr.Number), pr.Title, pr.Author, pr.URL}
			}
			return a.printer().Table([]string{"REPO", "PR", "TITLE", "AUTHOR", "URL"}, rows)
		},
	}
}

func newPRReposCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List repositories you own, collaborate on, or reach through an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repos, err := a.deps.PullRequests.ListRepositories(cmd.Context())
			if err != nil {
				return err
			}
			if len(repos) == 0 {
				return a.printer().Empty("No repositories found.")
			}
			rows := make([][]string, len(repos))
			for i, r := range repos {
				visibility := "public"
				if r.Private {
					visibility = "private"
				}
				rows[i] = []string{r.FullName, string(r.Affiliation), visibility}
			}
			return a.printer().Table([]string{"REPOSITORY", "AFFILIATION", "VISIBILITY"}, rows)
		},
	}
}

func newPRReviewersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reviewers",
		Short: "List collaborators who can review pull requests in this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.reviewers(cmd.Context())
		},
	}
}

func (a *app) reviewers(ctx context.Context) error {
	repo, err := a.deps.Repository.Origin(ctx)
	if err != nil {
		return err
	}
	users, err := a.deps.PullRequests.ListCollaborators(ctx, repo)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return a.printer().Empty("No collaborators found for " + repo.FullName() + ".")
	}
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u}
	}
	return a.printer().Table([]string{"REVIEWER"}, rows)
}

func setIf(args bot.Args, key, val string) {
	if val != "" {
		args[key] = val
	}
}
