package markdown_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/botkit/bot"
	"github.com/botkit/bot/markdown"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}

func TestMain(m *testing.M) {
	// Styled elements only produce escape codes with a color profile.
	lipgloss.SetColorProfile(termenv.ANSI)
	os.Exit(m.Run())
}

func TestRender(t *testing.T) {
	t.Parallel()

	theme := bot.DefaultTheme()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", markdown.Render("", 80, theme))
	})

	t.Run("heading is styled differently from a paragraph", func(t *testing.T) {
		t.Parallel()
		heading := markdown.Render("# Open PRs", 80, theme)
		paragraph := markdown.Render("Open PRs", 80, theme)
		assert.Contains(t, stripANSI(heading), "Open PRs")
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("inline styles keep their text", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("**bold** *italic* `code` ~~gone~~", 80, theme))
		for _, want := range []string{"bold", "italic", "code", "gone"} {
			assert.Contains(t, got, want)
		}
		assert.NotContains(t, got, "~~")
	})

	t.Run("fenced code is not reflowed", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("```go\nfmt.Println(\"hello world\")\n```", 20, theme))
		assert.Contains(t, got, "go\n")
		assert.Contains(t, got, `fmt.Println("hello world")`)
	})

	t.Run("indented code block", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("intro\n\n    git push origin\n    git fetch", 80, theme))
		assert.Contains(t, got, "git push origin")
		assert.Contains(t, got, "git fetch")
	})

	t.Run("ordered list numbers items", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("1. first\n2. second", 80, theme))
		assert.Contains(t, got, "1. first")
		assert.Contains(t, got, "2. second")
	})

	t.Run("nested list", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("- outer\n  - inner one\n  - inner two", 80, theme))
		assert.Contains(t, got, "- outer")
		assert.Contains(t, got, "  - inner one")
		assert.Contains(t, got, "  - inner two")
	})

	t.Run("task list shows check boxes", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("- [x] Add login form\n- [ ] Write tests", 80, theme))
		assert.Contains(t, got, "✓ Add login form")
		assert.Contains(t, got, "☐ Write tests")
		assert.NotContains(t, got, "[x]")
	})

	t.Run("list continuation lines are indented", func(t *testing.T) {
		t.Parallel()
		src := "- this is a very long list item that should wrap and have continuation lines properly indented"
		lines := strings.Split(stripANSI(markdown.Render(src, 30, theme)), "\n")
		require.Greater(t, len(lines), 1)
		assert.True(t, strings.HasPrefix(lines[0], "- "))
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				assert.True(t, strings.HasPrefix(line, "  "), "continuation line should be indented: %q", line)
			}
		}
	})

	t.Run("links show their destination", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("[PR #42](https://github.com/acme/api/pull/42)", 80, theme))
		assert.Contains(t, got, "PR #42")
		assert.Contains(t, got, "github.com/acme/api/pull/42")
	})

	t.Run("bare URLs are linkified", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("see https://example.com/x", 80, theme))
		assert.Contains(t, got, "https://example.com/x")
	})

	t.Run("blockquote gets a bar", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("> quoted", 80, theme))
		assert.True(t, strings.HasPrefix(got, "┃ quoted"))
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()
		got := stripANSI(markdown.Render("above\n\n---\n\nbelow", 80, theme))
		assert.Contains(t, got, "above")
		assert.Contains(t, got, "───")
		assert.Contains(t, got, "below")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		got := markdown.Render(long, 30, theme)
		assert.Contains(t, stripANSI(got), "word12")
		assert.Greater(t, len(strings.Split(got, "\n")), 1)
	})

	t.Run("width zero defaults to 80", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, stripANSI(markdown.Render("hello world", 0, theme)), "hello world")
	})
}
