package pomodoro

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/botkit/bot"
)

// ReadyLine is printed on stdout by the background process once its timer
// is running. Nothing else is written to stdout by that process.
const ReadyLine = "pomodoro: ready"

// Spawner starts the background timer process and returns its pid once the
// process has reported readiness.
type Spawner interface {
	Spawn(ctx context.Context) (int, error)
}

// ProcessTable answers liveness questions about pids and delivers signals.
type ProcessTable interface {
	Alive(pid int) bool
	Terminate(pid int) error
}

// Interface compliance checks.
var (
	_ Spawner      = (*ExecSpawner)(nil)
	_ ProcessTable = OSProcessTable{}
)

// ExecSpawner re-executes a binary in a new session.
type ExecSpawner struct {
	Path    string        // binary to run
	Args    []string      // arguments, e.g. "pomodoro", "run"
	LogPath string        // stderr of the child; empty discards it
	Timeout time.Duration // readiness deadline, default 10s
}

// Spawn starts the process and waits for [ReadyLine]. The child is reaped in
// the background so it never lingers as a zombie of a long-lived parent.
func (s *ExecSpawner) Spawn(ctx context.Context) (int, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := osexec.Command(s.Path, s.Args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if s.LogPath != "" {
		f, err := os.OpenFile(s.LogPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return 0, fmt.Errorf("open pomodoro log: %w", err)
		}
		defer f.Close()
		cmd.Stderr = f
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start pomodoro process: %w", err)
	}
	pid := cmd.Process.Pid

	ready := make(chan error, 1)
	go func() { ready <- awaitReady(stdout) }()

	select {
	case err = <-ready:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 0, fmt.Errorf("pomodoro process %d did not become ready: %v: %w", pid, err, bot.ErrState)
	}
	go func() {
		_, _ = io.Copy(io.Discard, stdout)
		_ = cmd.Wait()
	}()
	return pid, nil
}

func awaitReady(r io.Reader) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if strings.TrimSpace(line) == ReadyLine {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected output %q", strings.TrimSpace(line))
	}
	return err
}

// OSProcessTable implements [ProcessTable] with kill(2).
type OSProcessTable struct{}

// Alive reports whether pid exists. A process owned by another user counts
// as alive.
func (OSProcessTable) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Terminate sends SIGTERM.
func (OSProcessTable) Terminate(pid int) error {
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal pomodoro process %d: %w", pid, err)
	}
	return nil
}

// Serve announces readiness on w and runs t until ctx is cancelled. It is
// the body of the background process.
func Serve(ctx context.Context, w io.Writer, t *Timer) error {
	if _, err := fmt.Fprintln(w, ReadyLine); err != nil {
		return fmt.Errorf("announce readiness: %w", err)
	}
	return t.Run(ctx)
}
