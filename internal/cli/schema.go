package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/netsense/api/v1beta1/configs"
	"github.com/macropower/netsense/pkg/definition"
)

var schemas = map[string]func() ([]byte, error){
	"network": definition.Schema,
	"config":  configs.Schema,
}

func NewSchemaCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:       "schema [network|config]",
		Short:     "Print the JSON schema of network definition files (default) or the configuration file",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"network", "config"},
		RunE: ra.withCleanup(func(cmd *cobra.Command, args []string) error {
			kind := "network"
			if len(args) > 0 {
				kind = args[0]
			}

			b, err := schemas[kind]()
			if err != nil {
				return err //nolint:wrapcheck // Names the schema.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), string(b)))

			return nil
		}),
	}
}
