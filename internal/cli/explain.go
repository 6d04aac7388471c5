package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/macropower/netsense/pkg/engine"
	"github.com/macropower/netsense/pkg/match"
)

const (
	explainExamples = `  # Explain every network definition:
  netsense explain

  # Explain one definition, matched by (fuzzy) name:
  netsense explain home`

	// previewWidth bounds the connect command preview.
	previewWidth = 72
	signalWidth  = 13
	resultWidth  = 12
)

type ExplainArgs struct {
	*CommonArgs
}

func NewExplainArgs(rootArgs *RootArgs) *ExplainArgs {
	return &ExplainArgs{
		CommonArgs: NewCommonArgs(rootArgs),
	}
}

func NewExplainCmd(ea *ExplainArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "explain [name]",
		Short:   "Show how each network definition was decided",
		Example: explainExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE: ea.withCleanup(func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}

			return runExplain(cmd, ea, name)
		}),
	}
	ea.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runExplain(cmd *cobra.Command, ea *ExplainArgs, name string) error {
	cfg, err := ea.loadConfig()
	if err != nil {
		return err
	}

	loader, err := ea.loader(cfg)
	if err != nil {
		return err
	}

	p, err := ea.prober(cfg)
	if err != nil {
		return err
	}

	report, err := engine.NewDetector(loader, p, nil).Detect(cmd.Context())
	if err != nil {
		return err //nolint:wrapcheck // Detect wraps its errors.
	}

	results := report.Results
	if name != "" {
		res, err := report.Lookup(name)
		if err != nil {
			return err //nolint:wrapcheck // Lookup names the query.
		}

		results = []engine.Result{res}
	}

	out := cmd.OutOrStdout()
	e := newExplainer(out, ea.colorProfile(out))

	mustN(fmt.Fprint(out, e.explain(report, results)))

	return nil
}

type explainer struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	label    lipgloss.Style
	results  map[match.TriState]lipgloss.Style
	matched  lipgloss.Style
	rejected lipgloss.Style
}

func newExplainer(w io.Writer, profile termenv.Profile) *explainer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	green := lipgloss.AdaptiveColor{Light: "#00875F", Dark: "#5FD787"}
	red := lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
	grey := lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}

	return &explainer{
		title:  r.NewStyle().Bold(true),
		subtle: r.NewStyle().Foreground(grey),
		label:  r.NewStyle().PaddingLeft(2).Width(signalWidth + 2),
		results: map[match.TriState]lipgloss.Style{
			match.NoOpinion: r.NewStyle().Width(resultWidth).Foreground(grey),
			match.Match:     r.NewStyle().Width(resultWidth).Foreground(green),
			match.NoMatch:   r.NewStyle().Width(resultWidth).Foreground(red),
		},
		matched:  r.NewStyle().Bold(true).Foreground(green),
		rejected: r.NewStyle().Bold(true).Foreground(red),
	}
}

func (e *explainer) explain(report *engine.Report, results []engine.Result) string {
	var b strings.Builder

	if len(results) == 0 {
		b.WriteString(e.subtle.Render("no network definitions found"))
		b.WriteString("\n")
	}

	for i, res := range results {
		if i > 0 {
			b.WriteString("\n")
		}

		e.writeResult(&b, res)
	}

	if !report.TakenAt.IsZero() {
		b.WriteString("\n")
		b.WriteString(e.subtle.Render("signals observed " + humanize.Time(report.TakenAt)))
		b.WriteString("\n")
	}

	return b.String()
}

func (e *explainer) writeResult(b *strings.Builder, res engine.Result) {
	def := res.Definition

	b.WriteString(e.title.Render(def.DisplayName()))
	b.WriteString(" ")
	b.WriteString(e.subtle.Render(def.Source))
	b.WriteString("\n")

	if res.Err != nil {
		b.WriteString(e.label.Render("decision"))
		b.WriteString(e.rejected.Render("invalid"))
		b.WriteString("\n")
		b.WriteString(e.label.Render("error"))
		b.WriteString(res.Err.Error())
		b.WriteString("\n")

		return
	}

	decision := e.rejected.Render("no match")
	if res.Decision.Matched {
		decision = e.matched.Render("match")
	}

	b.WriteString(e.label.Render("decision"))
	b.WriteString(decision)
	b.WriteString(e.subtle.Render(" (" + res.Decision.Policy.String() + ")"))
	b.WriteString("\n")

	for _, sr := range res.Decision.Results {
		b.WriteString(e.label.Render(sr.Signal))
		b.WriteString(e.results[sr.Result].Render(sr.Result.String()))

		if sr.Result != match.NoOpinion {
			b.WriteString(e.subtle.Render(fmt.Sprintf("want %s, have %s", sr.Configured, sr.Observed)))
		}

		b.WriteString("\n")
	}

	if len(def.ConnectCommands) > 0 {
		preview := strings.Join(strings.Fields(strings.Join(def.ConnectCommands, "; ")), " ")

		b.WriteString(e.label.Render("commands"))
		b.WriteString(truncate.StringWithTail(preview, previewWidth, "…"))
		b.WriteString("\n")
	}
}
