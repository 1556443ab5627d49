// Package gemini implements [bot.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between bot's
// domain types and the Gemini API types. Tool parameters are sent as
// typed schemas and tool results travel back as function responses.
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 8192
)
