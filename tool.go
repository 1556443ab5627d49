package bot

import (
	"context"
	"encoding/json"
)

// ParamType is the declared JSON type of a tool parameter. The values match
// the schema type names the model capability expects.
type ParamType string

const (
	ParamString  ParamType = "STRING"
	ParamNumber  ParamType = "NUMBER"
	ParamBoolean ParamType = "BOOLEAN"
	ParamObject  ParamType = "OBJECT"
)

// Parameter describes one named argument of a tool.
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// Tool is the schema sent to the model describing a tool's capabilities.
// A Tool is immutable once registered.
type Tool struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Required returns the names of the required parameters in declaration order.
func (t Tool) Required() []string {
	var names []string
	for _, p := range t.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// JSONSchema returns the parameters as a JSON Schema object, the form
// OpenAI-style function calling and the tool protocol expect.
func (t Tool) JSONSchema() map[string]any {
	props := make(map[string]any, len(t.Parameters))
	for _, p := range t.Parameters {
		props[p.Name] = map[string]any{
			"type":        p.Type.JSONType(),
			"description": p.Description,
		}
	}
	required := t.Required()
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// JSONType returns the lowercase JSON Schema name of the type.
func (p ParamType) JSONType() string {
	switch p {
	case ParamNumber:
		return "number"
	case ParamBoolean:
		return "boolean"
	case ParamObject:
		return "object"
	default:
		return "string"
	}
}

// ToolHandler performs the side effect behind a tool. A returned error is a
// domain failure and is reported to the caller as a failed ToolResult.
type ToolHandler interface {
	Invoke(ctx context.Context, args Args) (any, error)
}

// HandlerFunc adapts an ordinary function to a ToolHandler.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx context.Context, args Args) (any, error) {
	return f(ctx, args)
}

// ToolCall is a single request from the model to run a tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments Args
}

// ToolExecutor runs tool calls. Execute never returns an error: every
// failure, including an unknown tool name, is folded into the ToolResult.
type ToolExecutor interface {
	Execute(ctx context.Context, call ToolCall) ToolResult
}

// ToolResult is the tagged outcome of a tool execution. Exactly one of Data
// or Error is meaningful, selected by OK.
type ToolResult struct {
	OK    bool
	Data  any
	Error string
}

// Success returns a successful ToolResult carrying data.
func Success(data any) ToolResult {
	return ToolResult{OK: true, Data: data}
}

// Failure returns a failed ToolResult carrying err's message.
func Failure(err error) ToolResult {
	return ToolResult{Error: err.Error()}
}

type toolResultJSON struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// MarshalJSON encodes the result as {"ok":true,"data":...} or
// {"ok":false,"error":"..."}.
func (r ToolResult) MarshalJSON() ([]byte, error) {
	if r.OK {
		return json.Marshal(toolResultJSON{OK: true, Data: r.Data})
	}
	return json.Marshal(toolResultJSON{Error: r.Error})
}

// Text renders the result as text for transports that only carry strings.
// Successful string data is returned verbatim; other data is encoded as JSON.
func (r ToolResult) Text() string {
	if !r.OK {
		return r.Error
	}
	if s, ok := r.Data.(string); ok {
		return s
	}
	b, err := json.Marshal(r.Data)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
