// Package command is the command line interface of the deployer.
//
//	deployer [env files...]            deploys the contract
//	deployer balance [env files...]    shows the deployer's balance
//	deployer contracts [env files...]  lists the compiled contracts
//
// The env files are loaded into the environment before reading the
// configuration. Without the arguments ".env" is loaded if it exists.
package command

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/blocklords/deployer/log"
	"github.com/spf13/cobra"
)

// flag names
const (
	NETWORK_FLAG   = "network"
	CONTRACT_FLAG  = "contract"
	ARTIFACTS_FLAG = "artifacts"
)

// Run executes the command line arguments without the program name.
// Returns the process exit code: 0 on success, 1 on any failure.
func Run(args []string, stdout io.Writer, stderr io.Writer) int {
	error_logger, err := log.NewWithOutput(stderr, "main", log.WITH_TIMESTAMP)
	if err != nil {
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args == nil {
		args = []string{}
	}

	root := newRoot()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		error_logger.Error("deployer failed", "error", err)
		return 1
	}

	return 0
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "deployer [env files...]",
		Short: "Deploy the compiled smartcontract to the blockchain",
		Long: `Deploys the compiled smartcontract with the account of the deployer.

Prints the balance of the deployer, then submits the contract creation
and waits until it's confirmed. The configuration is read from the
environment variables and the env files passed as arguments.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          deploy,
	}

	root.PersistentFlags().String(NETWORK_FLAG, "", "network id in the networks file (default \"localhost\")")
	root.PersistentFlags().String(CONTRACT_FLAG, "", "contract name or fully qualified name (default \"Casino\")")
	root.PersistentFlags().String(ARTIFACTS_FLAG, "", "directory of the compiled artifacts (default \"artifacts\")")

	root.AddCommand(balanceCmd(), contractsCmd())
	return root
}
