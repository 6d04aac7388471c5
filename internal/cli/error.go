package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/macropower/netsense/pkg/engine"
	"github.com/macropower/netsense/pkg/probe"
)

// usagePrefixes start the messages of errors cobra and pflag return for
// bad invocations. They are not typed.
// See: https://github.com/spf13/cobra/pull/2266
var usagePrefixes = []string{
	"flag needs an argument:",
	"unknown flag:",
	"unknown shorthand flag:",
	"unknown command",
	"invalid argument",
	"accepts at most",
	"if any flags in the group",
}

type hintKind int

const (
	hintText hintKind = iota
	hintFlag
	hintCommand
)

type hintPart struct {
	text string
	kind hintKind
}

// hint is printed below errors it applies to.
type hint struct {
	applies func(error) bool
	parts   []hintPart
}

var hints = []hint{
	{
		applies: isUsageError,
		parts: []hintPart{
			{text: "Try"},
			{text: "--help", kind: hintFlag},
			{text: "for usage."},
		},
	},
	{
		applies: func(err error) bool { return errors.Is(err, probe.ErrProbe) },
		parts: []hintPart{
			{text: "Set"},
			{text: "--external-ip,", kind: hintFlag},
			{text: "--gateway-ip", kind: hintFlag},
			{text: "or"},
			{text: "--gateway-mac", kind: hintFlag},
			{text: "to skip probing."},
		},
	},
	{
		applies: func(err error) bool {
			return errors.Is(err, engine.ErrNotFound) || errors.Is(err, engine.ErrAmbiguous)
		},
		parts: []hintPart{
			{text: "Run"},
			{text: cmdName + " explain", kind: hintCommand},
			{text: "to list every network definition."},
		},
	},
}

// ErrorHandler renders command errors, followed by the first hint that
// applies to the error.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	i := slices.IndexFunc(hints, func(h hint) bool { return h.applies(err) })
	if i < 0 {
		return
	}

	mustN(fmt.Fprintln(w, hints[i].render(styles)))
	mustN(fmt.Fprintln(w))
}

func (h hint) render(styles fang.Styles) string {
	text := styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform()

	rendered := make([]string, 0, len(h.parts))

	for i, p := range h.parts {
		var s lipgloss.Style

		switch p.kind {
		case hintFlag:
			s = styles.Program.Flag
		case hintCommand:
			s = styles.Program.Command
		default:
			s = text
		}

		if i > 0 {
			s = s.PaddingLeft(1)
		}

		rendered = append(rendered, s.Render(p.text))
	}

	return lipgloss.JoinHorizontal(lipgloss.Left, rendered...)
}

func isUsageError(err error) bool {
	msg := err.Error()

	return slices.ContainsFunc(usagePrefixes, func(prefix string) bool {
		return strings.HasPrefix(msg, prefix)
	})
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
