package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envBinder sets flags from environment variables named after the flag,
// e.g. --gateway-ip from NETSENSE_GATEWAY_IP.
type envBinder struct {
	replacer *strings.Replacer
	prefix   string
}

// bindEnvVars binds every flag of cmd to its environment variable. Flags
// already set are left alone, and arguments parsed later override the
// environment. The variable name is appended to each flag's usage.
func bindEnvVars(cmd *cobra.Command) {
	b := envBinder{
		prefix:   strings.ToUpper(cmdName) + "_",
		replacer: strings.NewReplacer("-", "_"),
	}

	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		fs.VisitAll(b.bind)
	}
}

// envName returns the variable for a flag, e.g. "NETSENSE_LOG_LEVEL" for
// "log-level".
func (b envBinder) envName(flag string) string {
	return b.prefix + strings.ToUpper(b.replacer.Replace(flag))
}

func (b envBinder) bind(f *pflag.Flag) {
	name := b.envName(f.Name)

	suffix := "($" + name + ")"
	if !strings.HasSuffix(f.Usage, suffix) {
		f.Usage = fmt.Sprintf("%s %s", f.Usage, suffix)
	}

	value, ok := os.LookupEnv(name)
	if !ok || f.Changed {
		return
	}

	if err := f.Value.Set(value); err != nil {
		slog.Error("ignoring environment variable",
			slog.String("env", name),
			slog.String("value", value),
			slog.Any("error", err),
		)
	}
}
