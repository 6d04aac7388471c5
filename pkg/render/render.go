package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/macropower/netsense/pkg/definition"
	"github.com/macropower/netsense/pkg/yaml"
)

const header = "# connect commands"

// Block is the structured form of one matching definition.
type Block struct {
	Name     *string  `json:"name"`
	Source   string   `json:"source"`
	Commands []string `json:"commands"`
}

// NewBlock creates a [Block] for def.
func NewBlock(def *definition.NetworkDefinition) Block {
	cmds := []string(def.ConnectCommands)
	if cmds == nil {
		cmds = []string{}
	}

	return Block{
		Name:     def.Name,
		Source:   def.Source,
		Commands: cmds,
	}
}

// Text renders the text block for a single definition:
//
//	# connect commands for '<name>'
//	<command>
//	<command>
//
// The " for '<name>'" suffix is only present when the definition has a
// name. Commands are joined with newlines; a definition without commands
// renders the header line only. There is no trailing newline after the
// last command.
func Text(def *definition.NetworkDefinition) string {
	var sb strings.Builder

	sb.WriteString(header)

	if def.Name != nil {
		sb.WriteString(" for '")
		sb.WriteString(*def.Name)
		sb.WriteString("'")
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Join(def.ConnectCommands, "\n"))

	return sb.String()
}

// Renderer renders matching definitions in a [Format].
type Renderer struct {
	highlighter *Highlighter
	format      Format
}

// Opt configures a [Renderer].
type Opt func(*Renderer)

// WithHighlighter highlights text output.
func WithHighlighter(h *Highlighter) Opt {
	return func(r *Renderer) {
		r.highlighter = h
	}
}

// New creates a [Renderer].
func New(format Format, opts ...Opt) *Renderer {
	r := &Renderer{format: format}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render renders defs. Text output is one [Text] block per definition, each
// followed by a newline. JSON and YAML output is a list of [Block]s.
func (r *Renderer) Render(defs []*definition.NetworkDefinition) (string, error) {
	switch r.format {
	case FormatText, "":
		return r.renderText(defs)
	case FormatJSON:
		return renderJSON(defs)
	case FormatYAML:
		return renderYAML(defs)
	}

	return "", fmt.Errorf("unknown output format %q", r.format)
}

// Plain renders defs as text without highlighting.
func Plain(defs []*definition.NetworkDefinition) string {
	var sb strings.Builder

	for _, def := range defs {
		sb.WriteString(Text(def))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (r *Renderer) renderText(defs []*definition.NetworkDefinition) (string, error) {
	out := Plain(defs)
	if r.highlighter == nil || out == "" {
		return out, nil
	}

	return r.highlighter.Highlight(out)
}

func blocks(defs []*definition.NetworkDefinition) []Block {
	out := make([]Block, 0, len(defs))
	for _, def := range defs {
		out = append(out, NewBlock(def))
	}

	return out
}

func renderJSON(defs []*definition.NetworkDefinition) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	err := enc.Encode(blocks(defs))
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}

	return buf.String(), nil
}

func renderYAML(defs []*definition.NetworkDefinition) (string, error) {
	b, err := yaml.Marshal(blocks(defs))
	if err != nil {
		return "", err //nolint:wrapcheck // Already wrapped.
	}

	return string(b), nil
}
