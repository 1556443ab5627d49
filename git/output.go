package git

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// maxDiffLines bounds the diff summary handed to the model.
const maxDiffLines = 400

// Clean strips ANSI escape codes and control characters, keeping tabs and
// newlines. CRLF is normalized to LF.
func Clean(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\t' || r == '\n' || r > 0x1F {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TailLines keeps the last maxLines lines of s. The summary line of a diff
// stat comes last, so the tail is the useful part. A note replaces the
// dropped head.
func TailLines(s string, maxLines int) string {
	trailing := strings.HasSuffix(s, "\n")
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if s == "" || len(lines) <= maxLines {
		return s
	}
	dropped := len(lines) - maxLines
	out := "... " + strconv.Itoa(dropped) + " more lines\n" + strings.Join(lines[dropped:], "\n")
	if trailing {
		out += "\n"
	}
	return out
}
