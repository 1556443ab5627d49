package main

import (
	"context"
	"fmt"

	"github.com/botkit/bot"
	"github.com/botkit/bot/anthropic"
	"github.com/botkit/bot/gemini"
	"github.com/botkit/bot/openai"
)

// resolveProvider selects and constructs the model capability. An explicit
// provider wins; otherwise it is detected from whichever API key is set.
// apiKey, when set, overrides the configured key of the selected provider.
// Anthropic is only used when selected explicitly.
func resolveProvider(ctx context.Context, cfg bot.Config, apiKey string) (bot.Provider, error) {
	provider := cfg.Provider
	if provider == "" {
		hasGemini := cfg.GeminiAPIKey != ""
		hasOpenAI := cfg.OpenAIAPIKey != ""
		switch {
		case hasGemini && hasOpenAI:
			return nil, fmt.Errorf("multiple API keys found (GEMINI_API_KEY, OPENAI_API_KEY): use --provider to select: %w", bot.ErrValidation)
		case hasGemini:
			provider = "gemini"
		case hasOpenAI:
			provider = "openai"
		case apiKey != "":
			provider = "gemini"
		default:
			return nil, fmt.Errorf("no API key found: set GEMINI_API_KEY or OPENAI_API_KEY: %w", bot.ErrValidation)
		}
	}

	switch provider {
	case "gemini":
		key := firstNonEmpty(apiKey, cfg.GeminiAPIKey)
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set: %w", bot.ErrValidation)
		}
		var opts []gemini.Option
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		return gemini.New(ctx, key, opts...)
	case "openai":
		key := firstNonEmpty(apiKey, cfg.OpenAIAPIKey)
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set: %w", bot.ErrValidation)
		}
		var opts []openai.Option
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		return openai.New(key, opts...), nil
	case "anthropic":
		key := firstNonEmpty(apiKey, cfg.AnthropicAPIKey)
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set: %w", bot.ErrValidation)
		}
		var opts []anthropic.Option
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.New(key, opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"gemini\", \"openai\" or \"anthropic\": %w", provider, bot.ErrValidation)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
