package bot

// Usage tracks token consumption reported by the model capability.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
