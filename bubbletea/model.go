package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/botkit/bot"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Interface compliance check.
var _ tea.Model = Model{}

// Model is the Bubble Tea model for the interactive REPL.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	run     TurnFunc
	session *bot.Session
	theme   bot.Theme
	styles  Styles

	blocks []MessageBlock

	running bool
	pending *ConfirmRequestMsg
	cancel  context.CancelFunc
	msgCh   chan tea.Msg
	err     error
	ready   bool
}

// New creates a Model that runs turns with run against session.
func New(run TurnFunc, session *bot.Session, theme bot.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask something, or type exit"
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:   ti,
		run:     run,
		session: session,
		theme:   theme,
		styles:  NewStyles(theme),
	}
}

// Running returns whether a turn is in progress.
func (m Model) Running() bool { return m.running }

// Confirming returns the call awaiting confirmation, if any.
func (m Model) Confirming() (bot.ToolCall, bool) {
	if m.pending == nil {
		return bot.ToolCall{}, false
	}
	return m.pending.Call, true
}

// Err returns the last turn error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m = m.refresh()
		return m, m.listen()

	case ConfirmRequestMsg:
		m.pending = &msg
		return m, m.listen()

	case AgentDoneMsg:
		if m.cancel != nil {
			m.cancel()
		}
		m.running = false
		m.pending = nil
		m.cancel = nil
		m.msgCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
			m = m.refresh()
		}
		return m, m.Input.Focus()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	// input, status line, and the two separating newlines
	vpHeight := max(msg.Height-4, 1)
	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderSession()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		return m.answer(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		switch strings.ToLower(text) {
		case "exit", "quit":
			return m, tea.Quit
		}
		return m.submit(text)
	}

	if m.running {
		return m, nil
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	// Character keys belong to the input; the viewport scrolls on the rest.
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// answer resolves the pending confirmation. Anything other than y declines.
func (m Model) answer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.cancel != nil {
			m.cancel()
		}
		m.pending = nil
		return m, nil
	}
	ok := msg.Type == tea.KeyRunes && strings.EqualFold(string(msg.Runes), "y")
	m.pending.Reply <- ok
	m.pending = nil
	return m, nil
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m = m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.msgCh = make(chan tea.Msg, 64)
	m.running = true

	return m, tea.Batch(
		startTurn(ctx, m.run, m.session, text, m.msgCh),
		m.listen(),
	)
}

// renderSession creates blocks from an existing transcript.
func (m Model) renderSession() Model {
	if m.session == nil {
		return m
	}
	for _, msg := range m.session.History() {
		switch msg := msg.(type) {
		case bot.UserMessage:
			for _, b := range msg.Content {
				if tb, ok := b.(bot.TextBlock); ok {
					m.blocks = append(m.blocks, NewUserMessageBlock(tb.Text, m.styles))
				}
			}
		case bot.AssistantMessage:
			if text := msg.Text(); text != "" {
				m.blocks = append(m.blocks, NewReplyBlock(text, m.theme))
			}
			for _, call := range msg.ToolCalls() {
				m.blocks = append(m.blocks, NewToolCallBlock(call, m.styles))
			}
		case bot.ToolResultMessage:
			if msg.Cancelled {
				m.blocks = append(m.blocks, NewCancelledBlock(msg.ToolName, m.styles))
				continue
			}
			m.blocks = append(m.blocks, NewToolResultBlock(msg.ToolName, msg.Result, m.styles))
		}
	}
	return m
}

func (m Model) processEvent(evt bot.Event) Model {
	switch e := evt.(type) {
	case bot.EventReply:
		m.blocks = append(m.blocks, NewReplyBlock(e.Text, m.theme))
	case bot.EventToolRequested:
		m.blocks = append(m.blocks, NewToolCallBlock(e.Call, m.styles))
	case bot.EventToolResult:
		m.blocks = append(m.blocks, NewToolResultBlock(e.Call.Name, e.Result, m.styles))
	case bot.EventToolCancelled:
		m.blocks = append(m.blocks, NewCancelledBlock(e.Call.Name, m.styles))
	}
	return m
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	views := make([]string, len(m.blocks))
	for i, block := range m.blocks {
		views[i] = block.View(m.Viewport.Width)
	}
	return strings.Join(views, "\n\n")
}

func (m Model) statusLine() string {
	switch {
	case m.pending != nil:
		return m.styles.Accent.Render(fmt.Sprintf("Run %s? [y/N]", FormatCall(m.pending.Call)))
	case m.err != nil:
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.running:
		return m.styles.Muted.Render("Thinking...")
	}
	return m.styles.Muted.Render("Enter to send, exit or Ctrl+C to quit")
}

func (m Model) listen() tea.Cmd {
	if m.msgCh == nil {
		return nil
	}
	ch := m.msgCh
	return func() tea.Msg { return <-ch }
}

// startTurn runs one turn in the background. Events and confirmation
// requests are delivered on ch, followed by exactly one AgentDoneMsg.
func startTurn(ctx context.Context, run TurnFunc, session *bot.Session, text string, ch chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		onEvent := func(e bot.Event) {
			select {
			case ch <- StreamEventMsg{Event: e}:
			case <-ctx.Done():
			}
		}
		confirm := func(ctx context.Context, call bot.ToolCall) (bool, error) {
			reply := make(chan bool, 1)
			select {
			case ch <- ConfirmRequestMsg{Call: call, Reply: reply}:
			case <-ctx.Done():
				return false, ctx.Err()
			}
			select {
			case ok := <-reply:
				return ok, nil
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}
		err := run(ctx, session, text, onEvent, confirm)
		ch <- AgentDoneMsg{Err: err}
		return nil
	}
}
