package bot

// Event is a sealed interface representing progress within one turn of the
// dispatch loop. Front ends subscribe to events to render the turn.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventReply carries text produced by the model, either a direct reply or
// the follow-up after tool results.
type EventReply struct {
	Text string
}

func (EventReply) event() {}

// EventToolRequested signals that the model asked for a tool call.
type EventToolRequested struct {
	Call ToolCall
}

func (EventToolRequested) event() {}

// EventToolResult carries the outcome of an executed tool call.
type EventToolResult struct {
	Call   ToolCall
	Result ToolResult
}

func (EventToolResult) event() {}

// EventToolCancelled signals that the user declined a tool call.
type EventToolCancelled struct {
	Call ToolCall
}

func (EventToolCancelled) event() {}

// Interface compliance checks.
var (
	_ Event = EventReply{}
	_ Event = EventToolRequested{}
	_ Event = EventToolResult{}
	_ Event = EventToolCancelled{}
)
