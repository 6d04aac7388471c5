package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/macropower/netsense/api/v1beta1/configs"
	"github.com/macropower/netsense/pkg/definition"
	"github.com/macropower/netsense/pkg/engine"
	"github.com/macropower/netsense/pkg/expr"
	"github.com/macropower/netsense/pkg/log"
	"github.com/macropower/netsense/pkg/mcp"
	"github.com/macropower/netsense/pkg/probe"
	"github.com/macropower/netsense/pkg/render"
	"github.com/macropower/netsense/pkg/watch"
)

const (
	matchExamples = `  # Print the connect commands of every matching network:
  netsense

  # Use definitions from another directory:
  netsense --networks '~/networks/**/*.yml'

  # Only consider definitions whose file name mentions "vpn":
  netsense --select 'source.contains("vpn")'

  # Skip the external IP lookup:
  netsense --external-ip 203.0.113.7

  # Keep printing matches as definitions change:
  netsense --watch

  # Serve detect and explain tools over MCP on stdio:
  netsense --serve-mcp`

	// mcpStdio selects the stdio transport for --serve-mcp.
	mcpStdio = "stdio"
)

type MatchArgs struct {
	*CommonArgs

	Select      string
	Output      string
	ServeMCP    string
	KeepGoing   bool
	Copy        bool
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
}

func NewMatchArgs(rootArgs *RootArgs) *MatchArgs {
	return &MatchArgs{
		CommonArgs: NewCommonArgs(rootArgs),
	}
}

func (ma *MatchArgs) AddFlags(cmd *cobra.Command) {
	ma.CommonArgs.AddFlags(cmd)

	formats := make([]string, 0, len(render.Formats))
	for _, f := range render.Formats {
		formats = append(formats, string(f))
	}

	cmd.Flags().StringVarP(&ma.Select, "select", "s", "", "CEL expression selecting which definitions to evaluate")
	cmd.Flags().StringVarP(&ma.Output, "output", "o", "", fmt.Sprintf("Output format, one of: %s", formats))
	cmd.Flags().BoolVarP(&ma.KeepGoing, "keep-going", "k", false,
		"Print matches even when some definitions are invalid (still exits non-zero)")
	cmd.Flags().BoolVarP(&ma.Copy, "copy", "c", false, "Copy the connect commands to the clipboard")
	cmd.Flags().BoolVarP(&ma.Watch, "watch", "w", false, "Watch definition files and print matches as they change")
	cmd.Flags().StringVar(&ma.ServeMCP, "serve-mcp", "",
		`Serve the MCP server at the specified address, or on stdio when given without a value or as "stdio"`)
	cmd.Flags().Lookup("serve-mcp").NoOptDefVal = mcpStdio
	cmd.Flags().BoolVar(&ma.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&ma.ShowConfig, "show-config", false, "Print the active configuration and exit")

	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp),
	))

	cmd.MarkFlagsMutuallyExclusive("watch", "serve-mcp")
}

func NewMatchCmd(ma *MatchArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "match",
		Short:   "Default command, prints the connect commands of matching networks",
		Example: matchExamples,
		Args:    cobra.NoArgs,
		RunE: ma.withCleanup(func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, ma)
		}),
	}
	ma.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runMatch(cmd *cobra.Command, ma *MatchArgs) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	configPath := ma.configPath()

	err := configs.WriteDefault(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("error", err))
	}
	if ma.WriteConfig {
		// Writing was the whole job, so failing to write is fatal.
		return err
	}

	cfg, err := ma.loadConfig()
	if err != nil {
		return err
	}

	if ma.ShowConfig {
		return showConfig(out, cfg, ma.CommonArgs)
	}

	format := cfg.Output.Format
	if ma.Output != "" {
		format = ma.Output
	}

	f, err := render.ParseFormat(format)
	if err != nil {
		return err //nolint:wrapcheck // Already describes the flag value.
	}

	var opts []engine.Opt
	if ma.Select != "" {
		sel, err := expr.NewSelector(ma.Select)
		if err != nil {
			return fmt.Errorf("invalid --select: %w", err)
		}

		opts = append(opts, engine.WithSelector(sel))
	}

	loader, err := ma.loader(cfg)
	if err != nil {
		return err
	}

	p, err := ma.prober(cfg)
	if err != nil {
		return err
	}

	ttl := cfg.Probe.CacheTTL.Duration
	if ma.Watch || ma.ServeMCP != "" {
		p = probe.NewCached(p, ttl)
	}

	m := &matcher{
		detector: engine.NewDetector(loader, p, engine.New(opts...)),
		renderer: newRenderer(f, cfg, ma.colorProfile(out)),
	}

	switch {
	case ma.ServeMCP != "":
		addr := ma.ServeMCP
		if addr == mcpStdio || addr == "-" {
			addr = ""
		}

		err = mcp.NewServer(addr, m.detector).Serve(ctx)
		if err != nil {
			return fmt.Errorf("serve MCP: %w", err)
		}

		return nil

	case ma.Watch:
		return watchMatches(ctx, loader, m, out, ttl)
	}

	res, err := m.run(ctx)
	if err != nil {
		return err
	}

	failed := res.report.Err()
	if failed != nil && !ma.KeepGoing {
		return invalidDefinitionsError(res.report, failed)
	}

	_, err = fmt.Fprint(out, res.output)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if ma.Copy {
		copyCommands(res.matches)
	}

	if failed != nil {
		return invalidDefinitionsError(res.report, failed)
	}

	return nil
}

type matcher struct {
	detector *engine.Detector
	renderer *render.Renderer
}

type matchResult struct {
	report  *engine.Report
	output  string
	matches []*definition.NetworkDefinition
}

// run detects and renders the matching definitions. Invalid definitions are
// left in the report for the caller to handle.
func (m *matcher) run(ctx context.Context) (*matchResult, error) {
	report, err := m.detector.Detect(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // Detect wraps its errors.
	}

	matches := report.Matches()
	defs := make([]*definition.NetworkDefinition, 0, len(matches))
	for _, res := range matches {
		defs = append(defs, res.Definition)
		lintCommands(ctx, res.Definition)
	}

	out, err := m.renderer.Render(defs)
	if err != nil {
		return nil, fmt.Errorf("render matches: %w", err)
	}

	return &matchResult{report: report, output: out, matches: defs}, nil
}

func watchMatches(ctx context.Context, loader *definition.Loader, m *matcher, out io.Writer, interval time.Duration) error {
	w := watch.New(loader, func(ctx context.Context) (string, error) {
		res, err := m.run(ctx)
		if err != nil {
			return "", err
		}

		return res.output, nil
	}, out, watch.WithInterval(interval))

	err := w.Run(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", loader.Root(), err)
	}

	return nil
}

func newRenderer(f render.Format, cfg *configs.Config, profile termenv.Profile) *render.Renderer {
	var opts []render.Opt
	if f == render.FormatText && profile != termenv.Ascii {
		opts = append(opts, render.WithHighlighter(render.NewHighlighter(cfg.Output.Style, profile)))
	}

	return render.New(f, opts...)
}

func lintCommands(ctx context.Context, def *definition.NetworkDefinition) {
	for _, err := range render.Lint(def) {
		log.WithContext(ctx).Warn("connect command may not run",
			slog.String("definition", def.DisplayName()),
			slog.String("source", def.Source),
			slog.Any("error", err),
		)
	}
}

func copyCommands(defs []*definition.NetworkDefinition) {
	err := clipboard.WriteAll(render.Plain(defs))
	if err != nil {
		slog.Warn("could not copy connect commands to the clipboard", slog.Any("error", err))

		return
	}

	slog.Debug("copied connect commands to the clipboard", slog.Int("networks", len(defs)))
}

func invalidDefinitionsError(report *engine.Report, err error) error {
	return fmt.Errorf("%d network definitions could not be evaluated: %w", len(report.Failures()), err)
}
