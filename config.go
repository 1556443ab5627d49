package bot

import "time"

// DefaultSystemPrompt instructs the model to prefer tools over answering
// from its own knowledge.
const DefaultSystemPrompt = `You are a helpful AI assistant for a software developer.
You have access to a set of tools to help the user with their tasks.
For any request that can be fulfilled by a tool, you MUST use the tool. Do not attempt to answer directly if a tool is available.
If the user asks to start or stop a Pomodoro timer, you MUST use the 'start_pomodoro' or 'stop_pomodoro' tools respectively.
If the user asks for a currency exchange rate (e.g., "USD to VND rate"), you MUST use the 'convert_currency' tool. If no amount is specified, assume an amount of 1.
If you use a tool, explain what you did and the result.`

// DefaultRatesURL is the Vietcombank exchange-rate feed.
const DefaultRatesURL = "https://portal.vietcombank.com.vn/Usercontrols/TVPortal.TyGia/pXML.aspx"

// Config is the resolved configuration, built once at start-up and passed
// by value to the components that need it.
type Config struct {
	Provider     string // "gemini", "openai" or "anthropic"; empty = detect from API keys
	Model        string
	SystemPrompt string
	LogLevel     string

	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GitHubToken     string

	DefaultTargetBranch string
	RatesURL            string

	GoogleCredentials string // OAuth client file
	GoogleToken       string // cached OAuth token
	AuthAddr          string // loopback address for the OAuth redirect

	StateDir string // session transcripts
	PIDFile  string // Pomodoro liveness marker

	WorkDuration  time.Duration
	BreakDuration time.Duration

	RateAlertSpec     string // cron spec for the scheduled rate alert
	RateAlertCurrency string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		SystemPrompt:        DefaultSystemPrompt,
		LogLevel:            "info",
		DefaultTargetBranch: "develop",
		RatesURL:            DefaultRatesURL,
		GoogleCredentials:   ".google-credentials.json",
		GoogleToken:         ".google-token.json",
		AuthAddr:            "localhost:3000",
		PIDFile:             ".pomodoro.pid",
		WorkDuration:        25 * time.Minute,
		BreakDuration:       5 * time.Minute,
		RateAlertSpec:       "0 9 25 * *",
		RateAlertCurrency:   "USD",
	}
}
