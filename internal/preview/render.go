package preview

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

const highlightStyle = "nord"

// renderMarkdown renders markdown source with glamour. Returns ok=false
// when the renderer cannot be built or rejects the input, so the caller
// can fall back to plain text.
func renderMarkdown(text string, width int) ([]string, bool) {
	if width < 24 {
		width = 24
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return nil, false
	}
	out, err := r.Render(text)
	if err != nil {
		return nil, false
	}
	return splitLines(out), true
}

// highlight runs the content through chroma, picking a lexer from the
// file name first and content analysis second. Returns "" when
// formatting fails; an unknown language still formats with the fallback
// lexer, which yields plain text.
func highlight(path, text string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return ""
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}
