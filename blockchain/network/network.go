// The network package is used to get the blockchain network information.
package network

import (
	"fmt"

	"github.com/blocklords/deployer/blockchain/network/provider"
)

// Network is the blockchain where the contracts are deployed.
//
// ChainId is optional. If it's 0, then the client trusts the
// chain id returned by the provider.
type Network struct {
	Id        string              `json:"id" yaml:"id"`
	ChainId   uint64              `json:"chain_id" yaml:"chain_id"`
	Providers []provider.Provider `json:"providers" yaml:"providers"`
}

// Returns the provider url
func (n *Network) GetFirstProviderUrl() (string, error) {
	if len(n.Providers) == 0 {
		return "", fmt.Errorf("there is no providers")
	}
	return n.Providers[0].Url, nil
}

// Validate checks the id and the providers of the network
func (n *Network) Validate() error {
	if len(n.Id) == 0 {
		return fmt.Errorf("missing network id")
	}
	if len(n.Providers) == 0 {
		return fmt.Errorf("network '%s': atleast one provider should be given", n.Id)
	}
	for i, p := range n.Providers {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("network '%s' providers[%d]: %w", n.Id, i, err)
		}
	}
	return nil
}
