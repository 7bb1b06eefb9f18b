// The EVM blockchain client
// Any reply from client is validated.
package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/blocklords/deployer/blockchain/network"
	eth_common "github.com/ethereum/go-ethereum/common"
	eth_types "github.com/ethereum/go-ethereum/core/types"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	// ErrReverted is returned when the mined transaction failed
	ErrReverted = errors.New("transaction reverted")
	// ErrNoCode is returned when there is no contract at the deployed address
	ErrNoCode = errors.New("no contract code after deployment")
)

// Backend is the connection to the blockchain node.
// The ethclient.Client is the production backend.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend

	BalanceAt(ctx context.Context, account eth_common.Address, block_number *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

type closer interface {
	Close()
}

type Client struct {
	backend  Backend
	chain_id *big.Int
	Network  *network.Network
}

// New client connected to the first provider of the network
func New(ctx context.Context, network *network.Network) (*Client, error) {
	provider_url, err := network.GetFirstProviderUrl()
	if err != nil {
		return nil, fmt.Errorf("network.GetFirstProviderUrl: %w", err)
	}

	backend, err := ethclient.DialContext(ctx, provider_url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to blockchain %s: %w", network.Id, err)
	}

	client, err := NewWithBackend(ctx, backend, network)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return client, nil
}

// NewWithBackend creates the client over the existing connection.
//
// The chain id is fetched from the node. If the network declares the
// chain id, then it must match the chain id of the node.
func NewWithBackend(ctx context.Context, backend Backend, network *network.Network) (*Client, error) {
	chain_id, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend.ChainID: %w", err)
	}

	if network.ChainId != 0 && (!chain_id.IsUint64() || chain_id.Uint64() != network.ChainId) {
		return nil, fmt.Errorf("network %s expects chain id %d, but the provider is on chain %s", network.Id, network.ChainId, chain_id)
	}

	return &Client{
		backend:  backend,
		chain_id: chain_id,
		Network:  network,
	}, nil
}

// Close the connection if the backend supports it
func (c *Client) Close() {
	if backend, ok := c.backend.(closer); ok {
		backend.Close()
	}
}

// Backend returns the connection used to submit transactions
func (c *Client) Backend() Backend {
	return c.backend
}

// ChainID of the connected blockchain
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chain_id)
}

// Balance returns the account balance in wei at the latest block
func (c *Client) Balance(ctx context.Context, account eth_common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("backend.BalanceAt(%s): %w", account.Hex(), err)
	}

	return balance, nil
}

// WaitDeployed blocks until the contract creation transaction is mined.
//
// Returns an error if the transaction reverted or if there is no
// contract code at the created address.
func (c *Client) WaitDeployed(ctx context.Context, tx *eth_types.Transaction) (*eth_types.Receipt, error) {
	if tx.To() != nil {
		return nil, fmt.Errorf("transaction %s is not a contract creation", tx.Hash().Hex())
	}

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("bind.WaitMined(%s): %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != eth_types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s at block %s", ErrReverted, tx.Hash().Hex(), receipt.BlockNumber)
	}

	code, err := c.backend.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return receipt, fmt.Errorf("backend.CodeAt(%s): %w", receipt.ContractAddress.Hex(), err)
	}
	if len(code) == 0 {
		return receipt, fmt.Errorf("%w: %s", ErrNoCode, receipt.ContractAddress.Hex())
	}

	return receipt, nil
}
