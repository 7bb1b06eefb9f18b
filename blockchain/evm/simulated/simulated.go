// Package simulated is the in-memory blockchain for the tests.
//
// It wraps the go-ethereum simulated backend, so that it can be used
// as the client.Backend.
package simulated

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/core"
	eth_types "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// GAS_LIMIT of the simulated blocks
const GAS_LIMIT uint64 = 30_000_000

// Backend mines a block after every accepted transaction,
// unless AutoCommit is switched off.
type Backend struct {
	*backends.SimulatedBackend

	mu         sync.Mutex
	AutoCommit bool
	sent       []*eth_types.Transaction
}

// New simulated blockchain where each key owns the balance.
func New(balance *big.Int, keys ...*ecdsa.PrivateKey) *Backend {
	alloc := make(core.GenesisAlloc, len(keys))
	for _, key := range keys {
		alloc[crypto.PubkeyToAddress(key.PublicKey)] = core.GenesisAccount{
			Balance: new(big.Int).Set(balance),
		}
	}

	return &Backend{
		SimulatedBackend: backends.NewSimulatedBackend(alloc, GAS_LIMIT),
		AutoCommit:       true,
	}
}

// ChainID of the simulated blockchain
func (b *Backend) ChainID(ctx context.Context) (*big.Int, error) {
	return b.SimulatedBackend.Client.ChainID(ctx)
}

// SendTransaction adds the transaction to the pending block.
// With AutoCommit the block is mined right away.
func (b *Backend) SendTransaction(ctx context.Context, tx *eth_types.Transaction) error {
	if err := b.SimulatedBackend.SendTransaction(ctx, tx); err != nil {
		return err
	}

	b.mu.Lock()
	b.sent = append(b.sent, tx)
	auto_commit := b.AutoCommit
	b.mu.Unlock()

	if auto_commit {
		b.Commit()
	}
	return nil
}

// Sent returns the accepted transactions
func (b *Backend) Sent() []*eth_types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*eth_types.Transaction(nil), b.sent...)
}
