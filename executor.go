package bot

import (
	"context"
	"fmt"
)

// Interface compliance check.
var _ ToolExecutor = (*Executor)(nil)

// Executor runs tool calls against a Registry. It validates arguments against
// the tool definition before invoking the handler and converts every failure,
// including a handler panic, into a failed ToolResult.
type Executor struct {
	registry *Registry
}

// NewExecutor returns an Executor backed by r.
func NewExecutor(r *Registry) *Executor {
	return &Executor{registry: r}
}

// Execute resolves, validates and invokes call.
func (e *Executor) Execute(ctx context.Context, call ToolCall) (result ToolResult) {
	tool, ok := e.registry.Lookup(call.Name)
	if !ok {
		return Failure(fmt.Errorf("%s: %w", call.Name, ErrUnknownTool))
	}
	h, err := e.registry.Get(call.Name)
	if err != nil {
		return Failure(err)
	}
	if err := ValidateArgs(tool, call.Arguments); err != nil {
		return Failure(err)
	}

	defer func() {
		if r := recover(); r != nil {
			result = ToolResult{Error: fmt.Sprintf("%s: panic: %v", call.Name, r)}
		}
	}()

	data, err := h.Invoke(ctx, call.Arguments)
	if err != nil {
		return Failure(err)
	}
	return Success(data)
}

// ValidateArgs checks that every required parameter of tool is present and
// that present parameters carry the declared type. Numeric strings are
// accepted for NUMBER parameters since models often quote numbers.
func ValidateArgs(tool Tool, args Args) error {
	for _, p := range tool.Parameters {
		v, ok := args[p.Name]
		if !ok || v == nil {
			if p.Required {
				return fmt.Errorf("%s: missing required argument %q: %w", tool.Name, p.Name, ErrValidation)
			}
			continue
		}
		if p.Required {
			if s, isStr := v.(string); isStr && s == "" {
				return fmt.Errorf("%s: required argument %q is empty: %w", tool.Name, p.Name, ErrValidation)
			}
		}
		if !typeMatches(p.Type, v) {
			return fmt.Errorf("%s: argument %q must be %s: %w", tool.Name, p.Name, p.Type, ErrValidation)
		}
	}
	return nil
}

func typeMatches(t ParamType, v any) bool {
	switch t {
	case ParamString:
		_, ok := v.(string)
		return ok
	case ParamNumber:
		switch x := v.(type) {
		case float64, float32, int, int64:
			return true
		case string:
			_, err := Args{"n": x}.Number("n")
			return err == nil
		}
		return false
	case ParamBoolean:
		_, ok := v.(bool)
		return ok
	case ParamObject:
		_, ok := v.(map[string]any)
		return ok
	default:
		return true
	}
}
