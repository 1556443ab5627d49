package bot

import "context"

// Phase is the state of the Pomodoro timer.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseWorking Phase = "working"
	PhaseOnBreak Phase = "on_break"
)

// PomodoroStatus reports the outcome of a start or stop request.
type PomodoroStatus struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	Message string `json:"message"`
}

// PomodoroService controls the detached Pomodoro timer process.
type PomodoroService interface {
	Start(ctx context.Context) (PomodoroStatus, error)
	Stop(ctx context.Context) (PomodoroStatus, error)
}
