package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/macropower/netsense/pkg/probe"
	"github.com/macropower/netsense/pkg/render"
	"github.com/macropower/netsense/pkg/yaml"
)

type ObserveArgs struct {
	*CommonArgs

	Output string
}

func NewObserveArgs(rootArgs *RootArgs) *ObserveArgs {
	return &ObserveArgs{
		CommonArgs: NewCommonArgs(rootArgs),
	}
}

func (oa *ObserveArgs) AddFlags(cmd *cobra.Command) {
	oa.CommonArgs.AddFlags(cmd)

	cmd.Flags().StringVarP(&oa.Output, "output", "o", string(render.FormatText), "Output format, one of: text, json, yaml")
}

func NewObserveCmd(oa *ObserveArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observe",
		Short: "Print the observed external IP, gateway IP and gateway MAC",
		Args:  cobra.NoArgs,
		RunE: oa.withCleanup(func(cmd *cobra.Command, _ []string) error {
			return runObserve(cmd, oa)
		}),
	}
	oa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runObserve(cmd *cobra.Command, oa *ObserveArgs) error {
	f, err := render.ParseFormat(oa.Output)
	if err != nil {
		return err //nolint:wrapcheck // Already describes the flag value.
	}

	cfg, err := oa.loadConfig()
	if err != nil {
		return err
	}

	p, err := oa.prober(cfg)
	if err != nil {
		return err
	}

	state, err := probe.Observe(cmd.Context(), p)
	if err != nil {
		return fmt.Errorf("observe network: %w", err)
	}

	return writeObserved(cmd.OutOrStdout(), f, state)
}

func writeObserved(w io.Writer, f render.Format, state probe.ObservedState) error {
	switch f {
	case render.FormatJSON:
		b, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}

		mustN(fmt.Fprintln(w, string(b)))

	case render.FormatYAML:
		b, err := yaml.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}

		mustN(fmt.Fprint(w, string(b)))

	default:
		mustN(fmt.Fprintf(w, "%-12s %s\n", probe.SignalExternalIP, state.ExternalIP))
		mustN(fmt.Fprintf(w, "%-12s %s\n", probe.SignalGatewayIP, state.GatewayIP))
		mustN(fmt.Fprintf(w, "%-12s %s\n", probe.SignalGatewayMAC, state.GatewayMAC))
	}

	return nil
}
