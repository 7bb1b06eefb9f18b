package network

import (
	"fmt"
)

type Networks []*Network

// Whether the network with network_id exists in the networks list
func (networks Networks) Exist(network_id string) bool {
	for _, network := range networks {
		if network.Id == network_id {
			return true
		}
	}

	return false
}

// Validate every network and make sure that the ids are unique
func (networks Networks) Validate() error {
	seen := make(map[string]struct{}, len(networks))

	for i, network := range networks {
		if network == nil {
			return fmt.Errorf("networks[%d] is empty", i)
		}
		if err := network.Validate(); err != nil {
			return fmt.Errorf("networks[%d]: %w", i, err)
		}
		if _, ok := seen[network.Id]; ok {
			return fmt.Errorf("networks[%d]: duplicate network id '%s'", i, network.Id)
		}
		seen[network.Id] = struct{}{}
	}

	return nil
}

// Returns the Network from the list of networks by its network_id
func (networks Networks) Get(network_id string) (*Network, error) {
	for _, network := range networks {
		if network.Id == network_id {
			return network, nil
		}
	}

	return nil, fmt.Errorf("'%s' not found", network_id)
}
