package bot

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values.
type Theme struct {
	UserMsg  int // User input accent
	ToolCall int // Tool call header
	Error    int // Failures
	Success  int // Successful results
	Muted    int // Status line, placeholders
	CodeBg   int // Code block background
	Accent   int // Headings, links, confirm prompt
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:  4,
		ToolCall: 3,
		Error:    1,
		Success:  2,
		Muted:    8,
		CodeBg:   0,
		Accent:   5,
	}
}
