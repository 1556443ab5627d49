// Package mcp serves the tool registry over the Model Context Protocol:
// newline-delimited JSON-RPC 2.0 on a pair of streams, normally stdio.
package mcp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/botkit/bot"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ProtocolVersion is the protocol revision reported by initialize.
const ProtocolVersion = "2024-11-05"

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

const maxLine = 16 << 20

// Server answers tool-protocol requests against a Registry. It keeps no
// state between calls.
type Server struct {
	registry    *bot.Registry
	executor    bot.ToolExecutor
	name        string
	version     string
	maxInFlight int
	logger      *slog.Logger

	mu sync.Mutex // serialises writes
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. It must not write to the response stream.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l.With("component", "mcp") }
}

// WithServerInfo overrides the name and version reported by initialize.
func WithServerInfo(name, version string) Option {
	return func(s *Server) { s.name, s.version = name, version }
}

// WithMaxInFlight bounds the number of requests handled concurrently.
func WithMaxInFlight(n int) Option {
	return func(s *Server) { s.maxInFlight = n }
}

// NewServer returns a Server exposing the tools in r, run through exec.
func NewServer(r *bot.Registry, exec bot.ToolExecutor, opts ...Option) *Server {
	s := &Server{
		registry:    r,
		executor:    exec,
		name:        "bot-mcp-server",
		version:     "1.0.0",
		maxInFlight: 8,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Serve reads requests from r until EOF and writes responses to w. Each
// request runs in its own goroutine, so responses may be written out of
// order. Serve returns once every in-flight request has been answered.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxInFlight)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			break
		}
		line := append([]byte(nil), sc.Bytes()...)
		if len(line) == 0 {
			continue
		}
		g.Go(func() error {
			if resp, ok := s.handle(gctx, line); ok {
				return s.write(w, resp)
			}
			return nil
		})
	}
	werr := g.Wait()
	if err := sc.Err(); err != nil {
		return fmt.Errorf("mcp: read: %w", err)
	}
	if werr != nil {
		return fmt.Errorf("mcp: write: %w", werr)
	}
	return nil
}

func (s *Server) write(w io.Writer, resp response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		b, _ = json.Marshal(errorResponse(resp.ID, -32603, "internal error"))
	}
	b = append(b, '\n')
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = w.Write(b)
	return err
}

// handle returns the response to line, or false for a notification.
func (s *Server) handle(ctx context.Context, line []byte) (response, bool) {
	req, err := decodeRequest(line)
	if err != nil {
		s.logger.Warn("malformed request", "error", err)
		return errorResponse(nil, CodeParseError, "Parse error"), true
	}
	if req.isNotification() {
		s.logger.Debug("notification", "method", req.Method)
		return response{}, false
	}
	if req.Method == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "Invalid Request"), true
	}

	s.logger.Debug("request", "method", req.Method)
	switch req.Method {
	case "initialize":
		return result(req.ID, initializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
			Capabilities:    capabilities{Tools: map[string]any{}},
		}), true
	case "ping":
		return result(req.ID, map[string]any{}), true
	case "tools/list", "ListTools":
		return result(req.ID, s.listTools()), true
	case "tools/call", "CallTool":
		var p callParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return errorResponse(req.ID, CodeInvalidParams, "Invalid params: "+err.Error()), true
			}
		}
		if p.Name == "" {
			return errorResponse(req.ID, CodeInvalidParams, "Invalid params: missing tool name"), true
		}
		return result(req.ID, s.callTool(ctx, p)), true
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found: "+req.Method), true
	}
}

// ListTools returns the registered tools with their input schemas.
func (s *Server) ListTools() []ToolInfo {
	defs := s.registry.Definitions()
	out := make([]ToolInfo, len(defs))
	for i, t := range defs {
		out[i] = ToolInfo{Name: t.Name, Description: t.Description, InputSchema: t.JSONSchema()}
	}
	return out
}

func (s *Server) listTools() listToolsResult {
	return listToolsResult{Tools: s.ListTools()}
}

// CallTool runs one tool and renders its result as protocol content.
func (s *Server) CallTool(ctx context.Context, name string, args bot.Args) CallToolResult {
	return s.callTool(ctx, callParams{Name: name, Arguments: args})
}

func (s *Server) callTool(ctx context.Context, p callParams) CallToolResult {
	args := p.Arguments
	if args == nil {
		args = bot.Args{}
	}
	res := s.executor.Execute(ctx, bot.ToolCall{Name: p.Name, Arguments: args})
	if !res.OK {
		s.logger.Info("tool failed", "tool", p.Name, "error", res.Error)
	}
	return CallToolResult{
		Content: []Content{{Type: "text", Text: res.Text()}},
		IsError: !res.OK,
	}
}
