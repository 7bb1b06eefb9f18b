package command

import (
	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [env files...]",
		Short: "Print the balance of the deployer",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, args)
			if err != nil {
				return err
			}

			ctx, cancel := a.bound(cmd.Context())
			defer cancel()

			d, evm_client, err := a.newDeployer(ctx)
			if err != nil {
				return err
			}
			defer evm_client.Close()

			_, err = d.Balance(ctx)
			return err
		},
	}
}
