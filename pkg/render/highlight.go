package render

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// Highlighter highlights shell commands with chroma.
type Highlighter struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// HighlighterOpt configures a [Highlighter].
type HighlighterOpt func(*highlighterOptions)

type highlighterOptions struct {
	language string
}

// WithLanguage selects the chroma lexer. The default is "bash".
func WithLanguage(name string) HighlighterOpt {
	return func(o *highlighterOptions) {
		o.language = name
	}
}

// NewHighlighter creates a [Highlighter] for the given chroma style and
// terminal color profile.
func NewHighlighter(style string, profile termenv.Profile, opts ...HighlighterOpt) *Highlighter {
	o := &highlighterOptions{language: "bash"}
	for _, opt := range opts {
		opt(o)
	}

	lexer := lexers.Get(o.language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatterName := "noop"

	switch profile {
	case termenv.TrueColor:
		formatterName = "terminal16m"
	case termenv.ANSI256:
		formatterName = "terminal256"
	case termenv.ANSI:
		formatterName = "terminal8"
	case termenv.Ascii:
	}

	return &Highlighter{
		lexer:     chroma.Coalesce(lexer),
		formatter: formatters.Get(formatterName),
		style:     styles.Get(style),
	}
}

// Highlight returns s with ANSI color sequences.
func (h *Highlighter) Highlight(s string) (string, error) {
	it, err := h.lexer.Tokenise(nil, s)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}

	var buf bytes.Buffer

	err = h.formatter.Format(&buf, h.style, it)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}
