// Package openai implements [bot.Provider] on the OpenAI chat completions
// API, or any endpoint compatible with it.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/botkit/bot"
	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultModel = "gpt-4o-mini"

// Interface compliance check.
var _ bot.Provider = (*Client)(nil)

// Client implements [bot.Provider] for OpenAI-compatible chat completions.
type Client struct {
	client oai.Client
	model  string
}

// Option configures a [Client].
type Option func(*config)

type config struct {
	model   string
	baseURL string
}

// WithModel sets the model ID. Default is gpt-4o-mini.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithBaseURL points the client at a compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// New creates a new [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := config{model: defaultModel}
	for _, o := range opts {
		o(&cfg)
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	return &Client{
		client: oai.NewClient(reqOpts...),
		model:  cfg.model,
	}
}

// Generate sends the conversation as a chat completion request.
func (c *Client) Generate(ctx context.Context, req bot.Request) (bot.AssistantMessage, error) {
	if err := req.Validate(); err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("openai: %w", err)
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: ConvertMessages(req.SystemPrompt, req.Messages),
		Tools:    ConvertTools(req.Tools),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = oai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = oai.Float(*req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("openai: %v: %w", err, bot.ErrUpstream)
	}
	return ConvertResponse(resp)
}

// ConvertMessages converts the system prompt and bot Messages to chat
// completion message params.
// Exported for testing.
func ConvertMessages(system string, msgs []bot.Message) []oai.ChatCompletionMessageParamUnion {
	var out []oai.ChatCompletionMessageParamUnion
	if system != "" {
		out = append(out, oai.SystemMessage(system))
	}
	for _, msg := range msgs {
		switch m := msg.(type) {
		case bot.UserMessage:
			out = append(out, oai.UserMessage(blocksText(m.Content)))
		case bot.AssistantMessage:
			out = append(out, assistantParam(m))
		case bot.ToolResultMessage:
			b, err := json.Marshal(m.Result)
			if err != nil {
				b = []byte(fmt.Sprintf(`{"ok":false,"error":%q}`, err.Error()))
			}
			out = append(out, oai.ToolMessage(string(b), m.ToolCallID))
		}
	}
	return out
}

func assistantParam(m bot.AssistantMessage) oai.ChatCompletionMessageParamUnion {
	p := oai.ChatCompletionAssistantMessageParam{}
	if text := m.Text(); text != "" {
		p.Content.OfString = oai.String(text)
	}
	for _, tc := range m.ToolCalls() {
		args, err := json.Marshal(tc.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		p.ToolCalls = append(p.ToolCalls, oai.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: oai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: string(args),
			},
		})
	}
	return oai.ChatCompletionMessageParamUnion{OfAssistant: &p}
}

func blocksText(blocks []bot.ContentBlock) string {
	var s string
	for _, b := range blocks {
		if tb, ok := b.(bot.TextBlock); ok {
			s += tb.Text
		}
	}
	return s
}

// ConvertTools converts bot Tools to function tool params.
// Exported for testing.
func ConvertTools(tools []bot.Tool) []oai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]oai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		out[i] = oai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: oai.String(t.Description),
				Parameters:  shared.FunctionParameters(t.JSONSchema()),
			},
		}
	}
	return out
}

// ConvertResponse converts the first choice of a chat completion into an
// assistant message. Tool call arguments that are not valid JSON objects
// become an empty argument set so the executor reports the missing fields.
// Exported for testing.
func ConvertResponse(resp *oai.ChatCompletion) (bot.AssistantMessage, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return bot.AssistantMessage{}, fmt.Errorf("openai: empty response: %w", bot.ErrUpstream)
	}
	choice := resp.Choices[0]
	msg := bot.AssistantMessage{
		RawStopReason: choice.FinishReason,
		StopReason:    mapFinishReason(choice.FinishReason),
		Usage: bot.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		Timestamp: time.Now(),
	}
	if choice.Message.Content != "" {
		msg.Content = append(msg.Content, bot.TextBlock{Text: choice.Message.Content})
	}
	for _, tc := range choice.Message.ToolCalls {
		args := bot.Args{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				args = bot.Args{}
			}
		}
		msg.Content = append(msg.Content, bot.ToolCallBlock{ID: tc.ID, Name: tc.Function.Name, Arguments: args})
	}
	return msg, nil
}

func mapFinishReason(r string) bot.StopReason {
	switch r {
	case "stop":
		return bot.StopEndTurn
	case "length":
		return bot.StopLength
	case "tool_calls", "function_call":
		return bot.StopToolUse
	case "content_filter":
		return bot.StopSafety
	case "":
		return bot.StopUnknown
	default:
		return bot.StopError
	}
}
