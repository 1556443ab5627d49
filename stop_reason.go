package bot

// StopReason indicates why the model stopped generating.
type StopReason string

const (
	StopEndTurn StopReason = "end_turn"
	StopLength  StopReason = "length"
	StopToolUse StopReason = "tool_use"
	StopSafety  StopReason = "safety"
	StopError   StopReason = "error"
	StopUnknown StopReason = "unknown"
)
