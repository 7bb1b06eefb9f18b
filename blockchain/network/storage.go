// The storage.go file loads the network parameters from application environment.
//
// The networks are listed in the yaml file. If the file doesn't exist,
// then the DefaultConfiguration is used.
package network

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/blocklords/deployer/configuration"
	"gopkg.in/yaml.v3"
)

const (
	NETWORK         = "DEPLOYER_NETWORK"
	NETWORKS_FILE   = "DEPLOYER_NETWORKS_FILE"
	RPC_URL         = "DEPLOYER_RPC_URL"
	CHAIN_ID        = "DEPLOYER_CHAIN_ID"
	DEFAULT_NETWORK = "localhost"
)

// NetworkConfigurations are the default parameters of the network selection.
var NetworkConfigurations = configuration.DefaultConfig{
	Title: "Network",
	Parameters: map[string]interface{}{
		NETWORK:       DEFAULT_NETWORK,
		NETWORKS_FILE: "networks.yml",
		RPC_URL:       nil,
		CHAIN_ID:      0,
	},
}

// selection is the network part of the configuration
type selection struct {
	Network string `mapstructure:"deployer_network"`
	File    string `mapstructure:"deployer_networks_file"`
	ChainId uint64 `mapstructure:"deployer_chain_id"`
}

// Parse the yaml list of networks.
func Parse(data []byte) (Networks, error) {
	var networks Networks

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&networks); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml.Decode: %w", err)
	}

	if err := networks.Validate(); err != nil {
		return nil, err
	}

	return networks, nil
}

// LoadFile reads the networks from the yaml file.
func LoadFile(path string) (Networks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s): %w", path, err)
	}

	networks, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return networks, nil
}

// FromConfig returns the network where the contracts will be deployed.
//
// If DEPLOYER_RPC_URL is set, then the network is created from it.
// Otherwise the DEPLOYER_NETWORK is taken from the networks file.
func FromConfig(config *configuration.Config) (*Network, error) {
	var parameters selection
	if err := config.Unmarshal(&parameters); err != nil {
		return nil, fmt.Errorf("network parameters: %w", err)
	}
	id := parameters.Network
	if len(id) == 0 {
		id = DEFAULT_NETWORK
	}

	if config.Exist(RPC_URL) {
		return New(id, parameters.ChainId, config.GetString(RPC_URL))
	}

	path := parameters.File
	networks, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		networks, err = DefaultNetworks()
	}
	if err != nil {
		return nil, err
	}

	if !networks.Exist(id) {
		ids := make([]string, len(networks))
		for i, network := range networks {
			ids[i] = network.Id
		}
		return nil, fmt.Errorf("network '%s' not found in %s, available: %s", id, path, strings.Join(ids, ", "))
	}

	return networks.Get(id)
}
