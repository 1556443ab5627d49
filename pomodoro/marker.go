package pomodoro

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/botkit/bot"
)

// Marker is the liveness marker: a single-line file holding the pid of the
// background timer. Its existence means a timer is believed to be running.
type Marker struct {
	Path string
}

// Read returns the recorded pid. ok is false when no marker exists. A
// marker that does not hold a pid is reported as ErrState.
func (m Marker) Read() (pid int, ok bool, err error) {
	b, err := os.ReadFile(m.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read marker: %w", err)
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, true, fmt.Errorf("marker %s does not hold a pid: %w", m.Path, bot.ErrState)
	}
	return pid, true, nil
}

// Create writes pid to a new marker. It fails if a marker already exists.
func (m Marker) Create(pid int) error {
	if dir := filepath.Dir(m.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create marker directory: %w", err)
		}
	}
	f, err := os.OpenFile(m.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("marker %s already exists: %w", m.Path, bot.ErrState)
	}
	if err != nil {
		return fmt.Errorf("create marker: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", pid); err != nil {
		f.Close()
		os.Remove(m.Path)
		return fmt.Errorf("write marker: %w", err)
	}
	return f.Close()
}

// Remove deletes the marker. A missing marker is not an error.
func (m Marker) Remove() error {
	if err := os.Remove(m.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove marker: %w", err)
	}
	return nil
}
