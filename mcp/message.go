package mcp

import (
	stdjson "encoding/json"

	"github.com/botkit/bot"
)

type request struct {
	JSONRPC string             `json:"jsonrpc"`
	ID      stdjson.RawMessage `json:"id,omitempty"`
	Method  string             `json:"method"`
	Params  stdjson.RawMessage `json:"params,omitempty"`

	hasID bool // the id member is present, even when it is null
}

// decodeRequest parses one line. Presence of the id member is recorded
// separately because a null id decodes to an empty value.
func decodeRequest(line []byte) (request, error) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return request{}, err
	}
	var members map[string]stdjson.RawMessage
	if err := json.Unmarshal(line, &members); err != nil {
		return request{}, err
	}
	_, req.hasID = members["id"]
	return req, nil
}

// isNotification reports whether no response is expected. The legacy
// ListTools and CallTool methods are always answered.
func (r request) isNotification() bool {
	if r.hasID {
		return false
	}
	switch r.Method {
	case "ListTools", "CallTool":
		return false
	}
	return true
}

type response struct {
	JSONRPC string             `json:"jsonrpc"`
	ID      stdjson.RawMessage `json:"id"`
	Result  any                `json:"result,omitempty"`
	Error   *rpcError          `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var nullID = stdjson.RawMessage("null")

func result(id stdjson.RawMessage, v any) response {
	if len(id) == 0 {
		id = nullID
	}
	return response{JSONRPC: "2.0", ID: id, Result: v}
}

func errorResponse(id stdjson.RawMessage, code int, msg string) response {
	if len(id) == 0 {
		id = nullID
	}
	return response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: msg}}
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type capabilities struct {
	Tools map[string]any `json:"tools"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      serverInfo   `json:"serverInfo"`
	Capabilities    capabilities `json:"capabilities"`
}

// ToolInfo describes one tool in a tools/list response.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type listToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

type callParams struct {
	Name      string   `json:"name"`
	Arguments bot.Args `json:"arguments"`
}

// Content is one item of a tool call result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the result of tools/call.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}
