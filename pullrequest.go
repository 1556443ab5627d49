package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultApproveComment is the review body used when none is given.
const DefaultApproveComment = "LGTM! 👍"

// Repo identifies a repository on the source-control host.
type Repo struct {
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r Repo) FullName() string { return r.Owner + "/" + r.Name }

// PullRequest is a summary of a pull request.
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Repo      string    `json:"repo,omitempty"`
	URL       string    `json:"url"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created"`
	Reviewers []string  `json:"reviewers,omitempty"`
}

// NewPullRequest describes a pull request to open.
type NewPullRequest struct {
	Repo      Repo
	Title     string
	Body      string
	Head      string
	Base      string
	Reviewers []string
}

// Affiliation is the relationship between the user and a repository.
type Affiliation string

const (
	AffiliationOwner        Affiliation = "owner"
	AffiliationCollaborator Affiliation = "collaborator"
	AffiliationOrgMember    Affiliation = "organization_member"
)

// RepoSummary is one repository the user can access.
type RepoSummary struct {
	FullName    string      `json:"full_name"`
	Private     bool        `json:"private"`
	Affiliation Affiliation `json:"affiliation"`
}

// PullRequestService is the source-control host.
type PullRequestService interface {
	CurrentUser(ctx context.Context) (string, error)
	Create(ctx context.Context, pr NewPullRequest) (PullRequest, error)
	Get(ctx context.Context, repo Repo, number int) (PullRequest, error)
	Approve(ctx context.Context, repo Repo, number int, comment string) error
	ListOpen(ctx context.Context, repo Repo) ([]PullRequest, error)
	ListReviewRequested(ctx context.Context, user string) ([]PullRequest, error)
	ListRepositories(ctx context.Context) ([]RepoSummary, error)
	ListCollaborators(ctx context.Context, repo Repo) ([]string, error)
}

// Repository is the local working copy.
type Repository interface {
	CurrentBranch(ctx context.Context) (string, error)
	Origin(ctx context.Context) (Repo, error)
	Fetch(ctx context.Context) error
	RemoteBranches(ctx context.Context) ([]string, error)
	Push(ctx context.Context, branch string) error
	DiffStat(ctx context.Context, since string) (string, error)
}

var ticketPattern = regexp.MustCompile(`[a-zA-Z]+-[0-9]+`)

// TitleFromBranch derives a pull request title from a branch name. A branch
// containing a ticket key such as "feature/abc-123-fix-login" yields
// "[ABC-123] fix login"; any other branch yields "Pull Request".
func TitleFromBranch(branch string) string {
	loc := ticketPattern.FindStringIndex(branch)
	if loc == nil {
		return "Pull Request"
	}
	ticket := strings.ToUpper(branch[loc[0]:loc[1]])
	rest := strings.TrimLeft(branch[loc[1]:], "-_/")
	rest = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(rest))
	if rest == "" {
		return "[" + ticket + "]"
	}
	return "[" + ticket + "] " + rest
}

// FormatPRBody renders a semicolon-separated list as a checked task list.
// Blank items are skipped, so an input with no items renders as "".
func FormatPRBody(body string) string {
	var items []string
	for _, item := range strings.Split(body, ";") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, "- [x] "+item)
		}
	}
	return strings.Join(items, "\n")
}

// ValidateBranchName rejects names git would refuse as a branch, and any
// name that could be read as a command-line option. The rules follow
// git check-ref-format --branch.
func ValidateBranchName(name string) error {
	invalid := func(reason string) error {
		return fmt.Errorf("invalid branch name %q: %s: %w", name, reason, ErrValidation)
	}
	switch {
	case name == "":
		return invalid("empty")
	case strings.HasPrefix(name, "-"):
		return invalid("must not start with '-'")
	case name == "@":
		return invalid("must not be '@'")
	case strings.Contains(name, ".."), strings.Contains(name, "@{"), strings.Contains(name, "//"):
		return invalid("contains '..', '@{' or '//'")
	case strings.HasSuffix(name, "/"), strings.HasSuffix(name, "."), strings.HasSuffix(name, ".lock"):
		return invalid("bad ending")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(" ~^:?*[\\", r) {
			return invalid(fmt.Sprintf("contains %q", r))
		}
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".lock") {
			return invalid("bad path component")
		}
	}
	return nil
}
