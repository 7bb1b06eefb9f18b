package command

import (
	"context"
	"fmt"
	"os"

	"github.com/blocklords/deployer/artifact"
	"github.com/blocklords/deployer/blockchain/evm/client"
	"github.com/blocklords/deployer/blockchain/network"
	"github.com/blocklords/deployer/configuration"
	"github.com/blocklords/deployer/deployer"
	"github.com/blocklords/deployer/log"
	"github.com/blocklords/deployer/security/signer"
	"github.com/spf13/cobra"
)

// dial connects to the network. Replaced in the tests.
var dial = client.New

// app is the loaded configuration shared by the commands
type app struct {
	logger     *log.Logger
	config     *configuration.Config
	parameters *deployer.Parameters
}

func newApp(cmd *cobra.Command, args []string) (*app, error) {
	logger, err := log.NewWithOutput(cmd.OutOrStdout(), "main", log.WITH_TIMESTAMP)
	if err != nil {
		return nil, fmt.Errorf("log.New: %w", err)
	}
	// the level set in the shell covers the env files loading
	if level, ok := os.LookupEnv(deployer.LOG_LEVEL); ok {
		_ = logger.SetLevel(level)
	}

	app_config, err := configuration.New(logger, args)
	if err != nil {
		return nil, fmt.Errorf("configuration.New: %w", err)
	}
	// the level set in the env files.
	// An invalid level is reported by the parameters.
	if app_config.Exist(deployer.LOG_LEVEL) {
		_ = logger.SetLevel(app_config.GetString(deployer.LOG_LEVEL))
	}
	app_config.SetDefaults(network.NetworkConfigurations)

	flags := map[string]string{
		network.NETWORK:    NETWORK_FLAG,
		deployer.CONTRACT:  CONTRACT_FLAG,
		deployer.ARTIFACTS: ARTIFACTS_FLAG,
	}
	for name, flag := range flags {
		if err := app_config.BindFlag(name, cmd.Flags().Lookup(flag)); err != nil {
			return nil, err
		}
	}

	parameters, err := deployer.NewParameters(app_config)
	if err != nil {
		return nil, fmt.Errorf("deployer.NewParameters: %w", err)
	}
	if err := logger.SetLevel(parameters.LogLevel); err != nil {
		return nil, fmt.Errorf("%s: %w", deployer.LOG_LEVEL, err)
	}

	return &app{
		logger:     logger,
		config:     app_config,
		parameters: parameters,
	}, nil
}

// bound limits the whole command by DEPLOYER_TIMEOUT, including
// the connection and the signer acquisition.
func (a *app) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.parameters.Timeout > 0 {
		return context.WithTimeout(ctx, a.parameters.Timeout)
	}
	return context.WithCancel(ctx)
}

// newDeployer connects to the network with the signer.
// The client should be closed by the caller.
func (a *app) newDeployer(ctx context.Context) (*deployer.Deployer, *client.Client, error) {
	evm_network, err := network.FromConfig(a.config)
	if err != nil {
		return nil, nil, fmt.Errorf("network.FromConfig: %w", err)
	}
	a.logger.Info("connecting", "network", evm_network.Id)

	evm_client, err := dial(ctx, evm_network)
	if err != nil {
		return nil, nil, fmt.Errorf("client.New: %w", err)
	}

	account, err := signer.New(ctx, a.config, a.logger)
	if err != nil {
		evm_client.Close()
		return nil, nil, fmt.Errorf("signer.New: %w", err)
	}

	d, err := deployer.New(evm_client, account, artifactsDir(a.parameters.Artifacts), a.logger)
	if err != nil {
		evm_client.Close()
		return nil, nil, err
	}
	d.GasLimit = a.parameters.GasLimit
	d.Timeout = a.parameters.Timeout

	return d, evm_client, nil
}

// artifactsDir loads the artifacts only when the factory is requested,
// after the balance was shown.
type artifactsDir string

func (dir artifactsDir) Factory(name string) (*artifact.Factory, error) {
	registry, err := artifact.Load(string(dir))
	if err != nil {
		return nil, fmt.Errorf("artifact.Load: %w", err)
	}
	return registry.Factory(name)
}

func deploy(cmd *cobra.Command, args []string) error {
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

	_, err = d.Run(ctx, a.parameters.Contract)
	return err
}
