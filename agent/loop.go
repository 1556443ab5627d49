// Package agent drives one conversational turn between a Provider and a
// ToolExecutor: the model either replies directly or requests tools, the
// tools run (after confirmation when the front end asks for it) and, for
// conversational front ends, the results go back to the model for a
// natural-language follow-up.
package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/botkit/bot"
)

// defaultMaxRounds bounds how many times a follow-up may request further
// tools within one turn.
const defaultMaxRounds = 4

// cancelledMessage is recorded in the transcript for a declined call.
const cancelledMessage = "Tool execution cancelled by user."

// Loop orchestrates the conversation between a Provider and a ToolExecutor.
type Loop struct {
	provider bot.Provider
	executor bot.ToolExecutor
	logger   *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) { lp.logger = l }
}

// New creates a new Loop with the given provider and tool executor.
func New(provider bot.Provider, executor bot.ToolExecutor, opts ...Option) *Loop {
	l := &Loop{
		provider: provider,
		executor: executor,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// CallPolicy selects which of the model's tool calls are acted on.
type CallPolicy int

const (
	// AllCalls acts on every requested call, in order.
	AllCalls CallPolicy = iota
	// FirstCallOnly acts on the first requested call and ignores the rest.
	FirstCallOnly
)

// ConfirmFunc asks the user whether call may run. Returning an error aborts
// the turn.
type ConfirmFunc func(ctx context.Context, call bot.ToolCall) (bool, error)

// TurnOption configures a single Turn invocation.
type TurnOption func(*turnConfig)

type turnConfig struct {
	onEvent   func(bot.Event)
	confirm   ConfirmFunc
	model     string
	policy    CallPolicy
	followup  bool
	maxRounds int
}

// WithEventHandler sets a callback that receives each event during the
// turn. If nil or not set, events are silently discarded.
func WithEventHandler(h func(bot.Event)) TurnOption {
	return func(c *turnConfig) { c.onEvent = h }
}

// WithConfirm requires every tool call to be confirmed before it runs.
func WithConfirm(f ConfirmFunc) TurnOption {
	return func(c *turnConfig) { c.confirm = f }
}

// WithModel sets the model ID for provider requests during this turn.
// Empty string means the provider uses its default model.
func WithModel(model string) TurnOption {
	return func(c *turnConfig) { c.model = model }
}

// WithCallPolicy selects which requested calls are acted on.
func WithCallPolicy(p CallPolicy) TurnOption {
	return func(c *turnConfig) { c.policy = p }
}

// WithFollowup controls whether tool results are sent back to the model
// for a final natural-language message. Without it the turn ends after
// the tools run and the caller renders the raw results.
func WithFollowup(enabled bool) TurnOption {
	return func(c *turnConfig) { c.followup = enabled }
}

// WithMaxRounds bounds how many follow-ups may request further tools.
func WithMaxRounds(n int) TurnOption {
	return func(c *turnConfig) { c.maxRounds = n }
}

// CallOutcome records what happened to one requested tool call.
type CallOutcome struct {
	Call      bot.ToolCall
	Result    bot.ToolResult
	Cancelled bool
}

// Outcome summarises a turn. Reply is the model's final text, which is
// empty when the model only requested tools and follow-up was disabled.
type Outcome struct {
	Reply string
	Calls []CallOutcome
}

// Cancelled reports whether every requested call was declined.
func (o Outcome) Cancelled() bool {
	if len(o.Calls) == 0 {
		return false
	}
	for _, c := range o.Calls {
		if !c.Cancelled {
			return false
		}
	}
	return true
}

// Turn appends utterance to the session, asks the model for a response and
// handles any tool calls it requests. Every message exchanged is appended
// to the session in order.
func (l *Loop) Turn(ctx context.Context, session *bot.Session, tools []bot.Tool, utterance string, opts ...TurnOption) (Outcome, error) {
	cfg := turnConfig{maxRounds: defaultMaxRounds}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	session.Append(bot.NewUserMessage(utterance))

	var out Outcome
	for round := 0; ; round++ {
		msg, err := l.generate(ctx, session, tools, &cfg)
		if err != nil {
			return out, err
		}

		calls := msg.ToolCalls()
		if len(calls) == 0 {
			out.Reply = msg.Text()
			cfg.emit(bot.EventReply{Text: out.Reply})
			return out, nil
		}
		if cfg.policy == FirstCallOnly {
			calls = calls[:1]
		}

		executed, err := l.dispatch(ctx, session, calls, &cfg, &out)
		if err != nil {
			return out, err
		}
		if !cfg.followup || executed == 0 {
			return out, nil
		}
		if round+1 >= cfg.maxRounds {
			l.logger.Warn("follow-up round limit reached", "rounds", cfg.maxRounds)
			return out, nil
		}
	}
}

func (l *Loop) generate(ctx context.Context, session *bot.Session, tools []bot.Tool, cfg *turnConfig) (bot.AssistantMessage, error) {
	req := bot.Request{
		Model:        cfg.model,
		SystemPrompt: session.SystemPrompt,
		Messages:     session.History(),
		Tools:        tools,
	}
	start := time.Now()
	msg, err := l.provider.Generate(ctx, req)
	if err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("generate: %w", err)
	}
	l.logger.Debug("model responded",
		"stop_reason", msg.StopReason,
		"tool_calls", len(msg.ToolCalls()),
		"elapsed", time.Since(start))
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	session.Append(msg)
	return msg, nil
}

// dispatch confirms and executes calls, appending one result message per
// call. It returns how many calls actually ran.
func (l *Loop) dispatch(ctx context.Context, session *bot.Session, calls []bot.ToolCall, cfg *turnConfig, out *Outcome) (int, error) {
	executed := 0
	for _, call := range calls {
		cfg.emit(bot.EventToolRequested{Call: call})

		if cfg.confirm != nil {
			ok, err := cfg.confirm(ctx, call)
			if err != nil {
				return executed, fmt.Errorf("confirm %s: %w", call.Name, err)
			}
			if !ok {
				l.logger.Info("tool call declined", "tool", call.Name)
				result := bot.ToolResult{Error: cancelledMessage}
				session.Append(bot.ToolResultMessage{
					ToolCallID: call.ID,
					ToolName:   call.Name,
					Result:     result,
					Cancelled:  true,
					Timestamp:  time.Now(),
				})
				out.Calls = append(out.Calls, CallOutcome{Call: call, Result: result, Cancelled: true})
				cfg.emit(bot.EventToolCancelled{Call: call})
				continue
			}
		}

		start := time.Now()
		result := l.executor.Execute(ctx, call)
		l.logger.Info("tool executed",
			"tool", call.Name,
			"ok", result.OK,
			"elapsed", time.Since(start))
		session.Append(bot.ToolResultMessage{
			ToolCallID: call.ID,
			ToolName:   call.Name,
			Result:     result,
			Timestamp:  time.Now(),
		})
		out.Calls = append(out.Calls, CallOutcome{Call: call, Result: result})
		cfg.emit(bot.EventToolResult{Call: call, Result: result})
		executed++
	}
	return executed, nil
}

func (c *turnConfig) emit(e bot.Event) {
	if c.onEvent != nil {
		c.onEvent(e)
	}
}
