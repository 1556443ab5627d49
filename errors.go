package bot

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request, argument or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrUnknownTool indicates the requested tool is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrDuplicateTool indicates a tool name was registered twice.
	ErrDuplicateTool = errors.New("duplicate tool")

	// ErrUpstream indicates an external service failed or returned
	// unusable data.
	ErrUpstream = errors.New("upstream error")

	// ErrState indicates persisted local state is inconsistent, such as a
	// liveness marker naming a process that no longer exists.
	ErrState = errors.New("inconsistent state")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
