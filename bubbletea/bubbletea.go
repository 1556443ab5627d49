// Package bubbletea provides the interactive Bubble Tea REPL. Every tool call
// the model asks for is shown to the user, who confirms or declines it before
// anything runs.
package bubbletea

import (
	"context"

	"github.com/botkit/bot"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmFunc asks the user whether a tool call may run.
type ConfirmFunc func(ctx context.Context, call bot.ToolCall) (bool, error)

// TurnFunc runs one turn of the conversation for utterance. The onEvent
// callback receives the turn's progress and confirm is consulted before each
// tool call. It blocks until the turn completes or ctx is cancelled.
type TurnFunc func(ctx context.Context, session *bot.Session, utterance string, onEvent func(bot.Event), confirm ConfirmFunc) error

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a turn event for delivery to the model.
type StreamEventMsg struct {
	Event bot.Event
}

// ConfirmRequestMsg asks the model to prompt for a tool call. The answer is
// sent once on Reply.
type ConfirmRequestMsg struct {
	Call  bot.ToolCall
	Reply chan<- bool
}

// AgentDoneMsg signals that the turn has completed.
type AgentDoneMsg struct {
	Err error
}
