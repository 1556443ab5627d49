package json

import (
	"fmt"
	"time"

	"github.com/botkit/bot"
	jsoniter "github.com/json-iterator/go"
)

// message is the stored form of every Message kind; Type selects which
// fields are meaningful.
type message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Content   []block   `json:"content,omitempty"`

	// assistant
	StopReason    string `json:"stop_reason,omitempty"`
	RawStopReason string `json:"raw_stop_reason,omitempty"`
	Usage         *usage `json:"usage,omitempty"`

	// tool_result
	ToolCallID string  `json:"tool_call_id,omitempty"`
	ToolName   string  `json:"tool_name,omitempty"`
	Result     *result `json:"result,omitempty"`
	Cancelled  bool    `json:"cancelled,omitempty"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// result keeps tool data as raw JSON. The handler's concrete type is not
// recorded, so data comes back as generic values.
type result struct {
	OK    bool                `json:"ok"`
	Data  jsoniter.RawMessage `json:"data,omitempty"`
	Error string              `json:"error,omitempty"`
}

const (
	typeUser       = "user"
	typeAssistant  = "assistant"
	typeToolResult = "tool_result"
)

func encodeMessage(msg bot.Message) (message, error) {
	switch m := msg.(type) {
	case bot.UserMessage:
		blocks, err := encodeBlocks(m.Content)
		return message{Type: typeUser, Timestamp: m.Timestamp, Content: blocks}, err
	case bot.AssistantMessage:
		blocks, err := encodeBlocks(m.Content)
		return message{
			Type:          typeAssistant,
			Timestamp:     m.Timestamp,
			Content:       blocks,
			StopReason:    string(m.StopReason),
			RawStopReason: m.RawStopReason,
			Usage:         &usage{InputTokens: m.Usage.InputTokens, OutputTokens: m.Usage.OutputTokens},
		}, err
	case bot.ToolResultMessage:
		res := &result{OK: m.Result.OK, Error: m.Result.Error}
		if m.Result.OK && m.Result.Data != nil {
			data, err := json.Marshal(m.Result.Data)
			if err != nil {
				return message{}, fmt.Errorf("tool result data: %w", err)
			}
			res.Data = data
		}
		return message{
			Type:       typeToolResult,
			Timestamp:  m.Timestamp,
			ToolCallID: m.ToolCallID,
			ToolName:   m.ToolName,
			Result:     res,
			Cancelled:  m.Cancelled,
		}, nil
	default:
		return message{}, fmt.Errorf("unknown message type: %T", msg)
	}
}

func decodeMessage(m message) (bot.Message, error) {
	blocks, err := decodeBlocks(m.Content)
	if err != nil {
		return nil, err
	}
	switch m.Type {
	case typeUser:
		return bot.UserMessage{Content: blocks, Timestamp: m.Timestamp}, nil
	case typeAssistant:
		out := bot.AssistantMessage{
			Content:       blocks,
			StopReason:    bot.StopReason(m.StopReason),
			RawStopReason: m.RawStopReason,
			Timestamp:     m.Timestamp,
		}
		if m.Usage != nil {
			out.Usage = bot.Usage{InputTokens: m.Usage.InputTokens, OutputTokens: m.Usage.OutputTokens}
		}
		return out, nil
	case typeToolResult:
		out := bot.ToolResultMessage{
			ToolCallID: m.ToolCallID,
			ToolName:   m.ToolName,
			Cancelled:  m.Cancelled,
			Timestamp:  m.Timestamp,
		}
		if m.Result != nil {
			out.Result = bot.ToolResult{OK: m.Result.OK, Error: m.Result.Error}
			if len(m.Result.Data) > 0 {
				if err := json.Unmarshal(m.Result.Data, &out.Result.Data); err != nil {
					return nil, fmt.Errorf("decode tool result data: %w", err)
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown message type: %q", m.Type)
	}
}
