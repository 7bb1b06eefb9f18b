package network

import (
	"fmt"

	"github.com/blocklords/deployer/blockchain/network/provider"
)

// New Network with the given provider urls
func New(id string, chain_id uint64, urls ...string) (*Network, error) {
	providers, err := provider.NewList(urls)
	if err != nil {
		return nil, fmt.Errorf("provider.NewList: %w", err)
	}

	network := &Network{
		Id:        id,
		ChainId:   chain_id,
		Providers: providers,
	}
	if err := network.Validate(); err != nil {
		return nil, err
	}

	return network, nil
}
