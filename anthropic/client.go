package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/botkit/bot"
)

// Interface compliance check.
var _ bot.Provider = (*Client)(nil)

// Client implements [bot.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithModel sets the default model ID.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate posts the conversation to the Messages API and returns the reply.
func (c *Client) Generate(ctx context.Context, req bot.Request) (bot.AssistantMessage, error) {
	if err := req.Validate(); err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("anthropic: %v: %w", err, bot.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return bot.AssistantMessage{}, parseHTTPError(resp)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("anthropic: decode response: %v: %w", err, bot.ErrUpstream)
	}
	return convertResponse(out), nil
}

func (c *Client) buildRequest(req bot.Request) apiRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	apiReq := apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      convertSystem(req.SystemPrompt),
		Messages:    convertMessages(req.Messages),
		Tools:       convertTools(req.Tools),
		Temperature: req.Temperature,
	}
	injectCacheMarkers(&apiReq)
	return apiReq
}

func convertSystem(prompt string) []apiContentBlock {
	if prompt == "" {
		return nil
	}
	return []apiContentBlock{{Type: "text", Text: prompt}}
}

// injectCacheMarkers sets cache breakpoints on the last system block and
// the last tool definition, which stay stable across turns.
func injectCacheMarkers(req *apiRequest) {
	cc := &apiCacheControl{Type: "ephemeral"}
	if len(req.System) > 0 {
		req.System[len(req.System)-1].CacheControl = cc
	}
	if len(req.Tools) > 0 {
		req.Tools[len(req.Tools)-1].CacheControl = cc
	}
}

// convertMessages maps the transcript onto alternating user and assistant
// messages. Tool results travel as user content and consecutive user
// content is merged.
func convertMessages(msgs []bot.Message) []apiMessage {
	var result []apiMessage
	add := func(role string, blocks []apiContentBlock) {
		if len(blocks) == 0 {
			return
		}
		if n := len(result); n > 0 && result[n-1].Role == role {
			result[n-1].Content = append(result[n-1].Content, blocks...)
			return
		}
		result = append(result, apiMessage{Role: role, Content: blocks})
	}

	for _, msg := range msgs {
		switch m := msg.(type) {
		case bot.UserMessage:
			add("user", convertContentBlocks(m.Content))
		case bot.AssistantMessage:
			add("assistant", convertContentBlocks(m.Content))
		case bot.ToolResultMessage:
			add("user", []apiContentBlock{{
				Type:      "tool_result",
				ToolUseID: m.ToolCallID,
				Content:   m.Result.Text(),
				IsError:   !m.Result.OK,
			}})
		}
	}
	return result
}

func convertContentBlocks(blocks []bot.ContentBlock) []apiContentBlock {
	result := make([]apiContentBlock, 0, len(blocks))
	for _, b := range blocks {
		switch bl := b.(type) {
		case bot.TextBlock:
			result = append(result, apiContentBlock{Type: "text", Text: bl.Text})
		case bot.ToolCallBlock:
			input, err := json.Marshal(bl.Arguments)
			if err != nil || bl.Arguments == nil {
				input = []byte("{}")
			}
			result = append(result, apiContentBlock{Type: "tool_use", ID: bl.ID, Name: bl.Name, Input: input})
		}
	}
	return result
}

func convertTools(tools []bot.Tool) []apiTool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]apiTool, len(tools))
	for i, t := range tools {
		result[i] = apiTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.JSONSchema(),
		}
	}
	return result
}

// convertResponse turns the reply into an assistant message. Tool inputs
// that are not JSON objects become an empty argument set.
func convertResponse(resp apiResponse) bot.AssistantMessage {
	msg := bot.AssistantMessage{
		RawStopReason: resp.StopReason,
		StopReason:    mapStopReason(resp.StopReason),
		Usage: bot.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		Timestamp: time.Now(),
	}
	for _, b := range resp.Content {
		switch b.Type {
		case "text":
			if b.Text != "" {
				msg.Content = append(msg.Content, bot.TextBlock{Text: b.Text})
			}
		case "tool_use":
			args := bot.Args{}
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &args); err != nil || args == nil {
					args = bot.Args{}
				}
			}
			msg.Content = append(msg.Content, bot.ToolCallBlock{ID: b.ID, Name: b.Name, Arguments: args})
		}
	}
	return msg
}

func mapStopReason(r string) bot.StopReason {
	switch r {
	case "end_turn", "stop_sequence", "pause_turn":
		return bot.StopEndTurn
	case "max_tokens":
		return bot.StopLength
	case "tool_use":
		return bot.StopToolUse
	case "refusal":
		return bot.StopSafety
	case "":
		return bot.StopUnknown
	default:
		return bot.StopError
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %v): %w", resp.StatusCode, err, bot.ErrUpstream)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Type == "" {
		return fmt.Errorf("anthropic: HTTP %d: %s: %w", resp.StatusCode, string(body), bot.ErrUpstream)
	}
	return fmt.Errorf("anthropic: %s: %s: %w", apiErr.Error.Type, apiErr.Error.Message, bot.ErrUpstream)
}
