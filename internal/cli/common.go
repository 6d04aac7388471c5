package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/netsense/api/v1beta1/configs"
	"github.com/macropower/netsense/pkg/config"
	"github.com/macropower/netsense/pkg/definition"
	"github.com/macropower/netsense/pkg/probe"
)

// legacyPatternEnv is the variable older netsense setups used to select
// rule files. It ranks below NETSENSE_NETWORKS and --networks.
const legacyPatternEnv = "CONFIG_FILE_PATTERN"

// CommonArgs holds the flags shared by every command that evaluates
// network definitions.
type CommonArgs struct {
	*RootArgs

	ConfigPath string
	Networks   string
	ExternalIP string
	GatewayIP  string
	GatewayMAC string
	NoColor    bool
}

func NewCommonArgs(rootArgs *RootArgs) *CommonArgs {
	return &CommonArgs{
		RootArgs: rootArgs,
	}
}

func (ca *CommonArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ca.ConfigPath, "config", "", "Path to the netsense configuration file")
	cmd.Flags().StringVarP(&ca.Networks, "networks", "n", "",
		fmt.Sprintf("Glob pattern matching network definition files (default %q)", definition.DefaultPattern))
	cmd.Flags().StringVar(&ca.ExternalIP, "external-ip", "", "Use this external IP instead of looking it up")
	cmd.Flags().StringVar(&ca.GatewayIP, "gateway-ip", "", "Use this gateway IP instead of reading the route table")
	cmd.Flags().StringVar(&ca.GatewayMAC, "gateway-mac", "", "Use this gateway MAC instead of reading the neighbor table")
	cmd.Flags().BoolVar(&ca.NoColor, "no-color", false, "Disable colored output")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))
}

func (ca *CommonArgs) configPath() string {
	if ca.ConfigPath != "" {
		return ca.ConfigPath
	}

	return configs.GetPath()
}

// loadConfig reads the configuration file, falling back to defaults when it
// cannot be read, and applies the rule pattern overrides.
func (ca *CommonArgs) loadConfig() (*configs.Config, error) {
	path := ca.configPath()
	cfg := configs.New()

	cl, err := config.NewLoaderFromFile(path, configs.New, configs.DefaultValidator,
		config.WithColor(!ca.NoColor),
	)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file, using defaults", slog.String("path", path))
	case err != nil:
		slog.Warn("could not read config, using defaults",
			slog.String("path", path),
			slog.Any("error", err),
		)
	default:
		err = cl.Validate()
		if errors.Is(err, config.ErrEmpty) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}

		cfg, err = cl.Load()
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	pattern := ca.Networks
	if pattern == "" {
		pattern = os.Getenv(legacyPatternEnv)
	}
	if pattern != "" {
		cfg.Networks.Pattern = &pattern
	}

	return cfg, nil
}

// loader creates the network definition loader for cfg.
func (ca *CommonArgs) loader(cfg *configs.Config) (*definition.Loader, error) {
	l, err := definition.NewLoader(cfg.Networks.GetPattern(), definition.WithColor(!ca.NoColor))
	if err != nil {
		return nil, fmt.Errorf("create network definition loader: %w", err)
	}

	return l, nil
}

// overrides returns the observed values given on the command line.
func (ca *CommonArgs) overrides() probe.ObservedState {
	return probe.ObservedState{
		ExternalIP: ca.ExternalIP,
		GatewayIP:  ca.GatewayIP,
		GatewayMAC: ca.GatewayMAC,
	}
}

// prober creates the prober for cfg. Signals given on the command line are
// never probed; when all of them are given the system is not consulted.
func (ca *CommonArgs) prober(cfg *configs.Config) (probe.Prober, error) {
	values := ca.overrides()
	if values.ExternalIP != "" && values.GatewayIP != "" && values.GatewayMAC != "" {
		return probe.NewStatic(values), nil
	}

	sys, err := probe.NewSystem(cfg.Probe)
	if err != nil {
		return nil, fmt.Errorf("create prober: %w", err)
	}

	if values == (probe.ObservedState{}) {
		return sys, nil
	}

	return probe.Override{Prober: sys, Values: values}, nil
}

// colorProfile returns the color profile to use for w. Output that is not
// a terminal, or --no-color, disables colors.
func (ca *CommonArgs) colorProfile(w io.Writer) termenv.Profile {
	if ca.NoColor {
		return termenv.Ascii
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}

	return termenv.NewOutput(f).EnvColorProfile()
}
