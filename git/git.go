// Package git implements [bot.Repository] by running the git binary in a
// working copy.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	osexec "os/exec"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/botkit/bot"
)

// defaultTimeout bounds a single git invocation; fetch and push talk to the
// network.
const defaultTimeout = 2 * time.Minute

// Interface compliance check.
var _ bot.Repository = (*Repo)(nil)

// Repo is a local working copy.
type Repo struct {
	dir     string
	bin     string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a [Repo].
type Option func(*Repo)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repo) { r.logger = l.With("component", "git") }
}

// WithBinary sets the git executable. Default is "git" from PATH.
func WithBinary(path string) Option {
	return func(r *Repo) { r.bin = path }
}

// Open returns the working copy rooted at dir. An empty dir means the
// process working directory.
func Open(dir string, opts ...Option) *Repo {
	r := &Repo{
		dir:     dir,
		bin:     "git",
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// CurrentBranch returns the checked-out branch.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Origin returns the GitHub repository the origin remote points at.
func (r *Repo) Origin(ctx context.Context) (bot.Repo, error) {
	out, err := r.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return bot.Repo{}, fmt.Errorf("origin remote not found: %w", err)
	}
	return ParseOrigin(strings.TrimSpace(out))
}

// Fetch updates remote-tracking branches.
func (r *Repo) Fetch(ctx context.Context) error {
	_, err := r.run(ctx, "fetch")
	return err
}

// RemoteBranches lists remote-tracking branches such as "origin/develop".
func (r *Repo) RemoteBranches(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" && !strings.HasSuffix(line, "/HEAD") {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// Push pushes branch to origin and sets it as upstream.
func (r *Repo) Push(ctx context.Context, branch string) error {
	if err := bot.ValidateBranchName(branch); err != nil {
		return err
	}
	_, err := r.run(ctx, "push", "--set-upstream", "origin", branch)
	return err
}

// DiffStat returns "git diff --stat" against HEAD as it was at since, a
// reflog expression such as "1 day ago".
func (r *Repo) DiffStat(ctx context.Context, since string) (string, error) {
	out, err := r.run(ctx, "diff", "--stat", "HEAD@{"+since+"}")
	if err != nil {
		return "", err
	}
	return TailLines(Clean(out), maxDiffLines), nil
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := osexec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = r.dir
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("git", "args", args, "elapsed", time.Since(start), "err", err)
	if err != nil {
		msg := strings.TrimSpace(Clean(stderr.String()))
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) && msg != "" {
			return "", fmt.Errorf("git %s: %s: %w", args[0], msg, bot.ErrUpstream)
		}
		return "", fmt.Errorf("git %s: %v: %w", args[0], err, bot.ErrUpstream)
	}
	return stdout.String(), nil
}

var originPattern = regexp.MustCompile(`github\.com[/:]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseOrigin extracts owner and name from an HTTPS or SSH GitHub remote URL.
func ParseOrigin(url string) (bot.Repo, error) {
	m := originPattern.FindStringSubmatch(url)
	if m == nil {
		return bot.Repo{}, fmt.Errorf("could not parse repository owner and name from %q: %w", url, bot.ErrValidation)
	}
	return bot.Repo{Owner: m[1], Name: m[2]}, nil
}
