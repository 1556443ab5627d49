package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/botkit/bot"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ bot.Provider = (*Client)(nil)

// Client implements [bot.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Generate sends the conversation to the Gemini API and returns the model's
// reply as an assistant message.
func (c *Client) Generate(ctx context.Context, req bot.Request) (bot.AssistantMessage, error) {
	if err := req.Validate(); err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("gemini: %w", err)
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, ConvertMessages(req.Messages), buildConfig(req))
	if err != nil {
		return bot.AssistantMessage{}, fmt.Errorf("gemini: %v: %w", err, bot.ErrUpstream)
	}
	return ConvertResponse(resp)
}

func buildConfig(req bot.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Tools:           ConvertTools(req.Tools),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}

	return config
}

// ConvertMessages converts bot Messages to genai Contents. Consecutive
// messages with the same role are merged so that turns alternate, which
// keeps a declined call followed by a new utterance a valid history.
// Exported for testing.
func ConvertMessages(msgs []bot.Message) []*genai.Content {
	var result []*genai.Content
	add := func(role string, parts []*genai.Part) {
		if len(parts) == 0 {
			return
		}
		if n := len(result); n > 0 && result[n-1].Role == role {
			result[n-1].Parts = append(result[n-1].Parts, parts...)
			return
		}
		result = append(result, &genai.Content{Role: role, Parts: parts})
	}

	for _, msg := range msgs {
		switch m := msg.(type) {
		case bot.UserMessage:
			add("user", convertParts(m.Content))
		case bot.AssistantMessage:
			add("model", convertParts(m.Content))
		case bot.ToolResultMessage:
			var response map[string]any
			if m.Result.OK {
				response = map[string]any{"output": m.Result.Data}
			} else {
				response = map[string]any{"error": m.Result.Error}
			}
			add("user", []*genai.Part{{
				FunctionResponse: &genai.FunctionResponse{
					ID:       m.ToolCallID,
					Name:     m.ToolName,
					Response: response,
				},
			}})
		}
	}
	return result
}

func convertParts(blocks []bot.ContentBlock) []*genai.Part {
	var parts []*genai.Part
	for _, b := range blocks {
		switch bl := b.(type) {
		case bot.TextBlock:
			parts = append(parts, &genai.Part{Text: bl.Text})
		case bot.ToolCallBlock:
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   bl.ID,
					Name: bl.Name,
					Args: bl.Arguments,
				},
			})
		}
	}
	return parts
}

// ConvertTools converts bot Tools to genai Tools.
// Exported for testing.
func ConvertTools(tools []bot.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		decls[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertSchema(t.Parameters),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func convertSchema(params []bot.Parameter) *genai.Schema {
	if len(params) == 0 {
		return nil
	}
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(params)),
	}
	for _, p := range params {
		schema.Properties[p.Name] = &genai.Schema{
			Type:        genai.Type(p.Type),
			Description: p.Description,
		}
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

// ConvertResponse converts the first candidate of a genai response into an
// assistant message. Thought parts are dropped. Calls without an ID are
// given one so their results can be correlated.
// Exported for testing.
func ConvertResponse(resp *genai.GenerateContentResponse) (bot.AssistantMessage, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return bot.AssistantMessage{}, fmt.Errorf("gemini: prompt blocked: %s: %w", resp.PromptFeedback.BlockReason, bot.ErrUpstream)
		}
		return bot.AssistantMessage{}, fmt.Errorf("gemini: empty response: %w", bot.ErrUpstream)
	}

	cand := resp.Candidates[0]
	msg := bot.AssistantMessage{
		RawStopReason: string(cand.FinishReason),
		StopReason:    mapFinishReason(cand.FinishReason),
		Timestamp:     time.Now(),
	}
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			switch {
			case p.Thought:
			case p.FunctionCall != nil:
				id := p.FunctionCall.ID
				if id == "" {
					id = uuid.NewString()
				}
				args := bot.Args(p.FunctionCall.Args)
				if args == nil {
					args = bot.Args{}
				}
				msg.Content = append(msg.Content, bot.ToolCallBlock{ID: id, Name: p.FunctionCall.Name, Arguments: args})
			case p.Text != "":
				msg.Content = append(msg.Content, bot.TextBlock{Text: p.Text})
			}
		}
	}
	if len(msg.ToolCalls()) > 0 {
		msg.StopReason = bot.StopToolUse
	}
	if resp.UsageMetadata != nil {
		msg.Usage = bot.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return msg, nil
}

func mapFinishReason(r genai.FinishReason) bot.StopReason {
	switch r {
	case genai.FinishReasonStop:
		return bot.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return bot.StopLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent:
		return bot.StopSafety
	case "":
		return bot.StopUnknown
	default:
		return bot.StopError
	}
}
