package command

import (
	"fmt"

	"github.com/blocklords/deployer/artifact"
	"github.com/spf13/cobra"
)

func contractsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contracts [env files...]",
		Short: "List the contracts that can be deployed",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, args)
			if err != nil {
				return err
			}

			registry, err := artifact.Load(a.parameters.Artifacts)
			if err != nil {
				return fmt.Errorf("artifact.Load: %w", err)
			}

			for _, name := range registry.Names() {
				if _, err := registry.Factory(name); err != nil {
					a.logger.Debug("skip", "contract", name, "reason", err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
