// Package deployer runs the deployment sequence of a contract:
// show the deployer's balance, submit the contract creation
// and wait until it's confirmed on the blockchain.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/blocklords/deployer/artifact"
	"github.com/blocklords/deployer/blockchain/evm/client"
	"github.com/blocklords/deployer/blockchain/evm/util"
	"github.com/blocklords/deployer/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	eth_common "github.com/ethereum/go-ethereum/common"
)

// Signer of the deployment transaction
type Signer interface {
	Address() eth_common.Address
	TransactOpts(ctx context.Context, chain_id *big.Int) (*bind.TransactOpts, error)
}

// Factories returns the contract factory by the contract name
type Factories interface {
	Factory(name string) (*artifact.Factory, error)
}

// Result of the successful deployment
type Result struct {
	Contract    string // fully qualified name
	Address     eth_common.Address
	TxHash      eth_common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Deployer    eth_common.Address
}

type Deployer struct {
	client    *client.Client
	signer    Signer
	factories Factories
	logger    *log.Logger

	// GasLimit of the creation transaction. 0 means estimate.
	GasLimit uint64
	// Timeout of the whole operation: the balance query, the submission
	// and the confirmation. 0 waits until the context is done.
	Timeout time.Duration
}

func New(evm_client *client.Client, signer Signer, factories Factories, parent *log.Logger) (*Deployer, error) {
	if evm_client == nil {
		return nil, errors.New("missing client")
	}
	if signer == nil {
		return nil, errors.New("missing signer")
	}
	if factories == nil {
		return nil, errors.New("missing contract factories")
	}

	return &Deployer{
		client:    evm_client,
		signer:    signer,
		factories: factories,
		logger:    parent.Child("deployer"),
	}, nil
}

// bound limits the context by the Timeout
func (d *Deployer) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.Timeout > 0 {
		return context.WithTimeout(ctx, d.Timeout)
	}
	return context.WithCancel(ctx)
}

// Balance fetches the native token balance of the deployer.
// The balance is printed in Ether, and returned in Wei.
func (d *Deployer) Balance(ctx context.Context) (*big.Int, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()

	address := d.signer.Address()

	balance, err := d.client.Balance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("client.Balance: %w", err)
	}

	d.logger.Info("Deployer balance",
		"address", address.Hex(),
		"balance", util.FormatEther(balance),
		"unit", "Ether",
	)

	return balance, nil
}

// Deploy creates a new instance of the contract and waits until the
// creation is confirmed. The name is either the contract name or
// the fully qualified name.
//
// Nothing is submitted if the contract can't be found.
func (d *Deployer) Deploy(ctx context.Context, name string) (*Result, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()

	factory, err := d.factories.Factory(name)
	if err != nil {
		return nil, fmt.Errorf("factory: %w", err)
	}

	opts, err := d.signer.TransactOpts(ctx, d.client.ChainID())
	if err != nil {
		return nil, fmt.Errorf("signer.TransactOpts: %w", err)
	}
	opts.GasLimit = d.GasLimit

	d.logger.Debug("submitting the contract creation", "contract", factory.Name, "network", d.client.Network.Id)
	address, tx, err := factory.Deploy(opts, d.client.Backend())
	if err != nil {
		return nil, fmt.Errorf("factory.Deploy: %w", err)
	}
	d.logger.Info("Deployment submitted", "contract", factory.Name, "tx", tx.Hash().Hex())

	receipt, err := d.client.WaitDeployed(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("client.WaitDeployed: %w", err)
	}
	if receipt.ContractAddress != address {
		return nil, fmt.Errorf("contract created at %s, expected %s", receipt.ContractAddress.Hex(), address.Hex())
	}

	result := &Result{
		Contract:    factory.Name,
		Address:     address,
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Deployer:    opts.From,
	}

	d.logger.Info("Contract deployed",
		"contract", result.Contract,
		"address", result.Address.Hex(),
		"tx", result.TxHash.Hex(),
		"block", result.BlockNumber,
		"gas_used", result.GasUsed,
	)

	return result, nil
}

// Run shows the balance then deploys the contract.
// The Timeout applies to both steps together.
func (d *Deployer) Run(ctx context.Context, name string) (*Result, error) {
	ctx, cancel := d.bound(ctx)
	defer cancel()

	if _, err := d.Balance(ctx); err != nil {
		return nil, err
	}
	return d.Deploy(ctx, name)
}
