package network

// DefaultConfiguration returns the list of networks
// used when there is no networks file.
//
// The localhost is the default development node (hardhat, anvil).
func DefaultConfiguration() string {
	return `
- id: localhost
  chain_id: 31337
  providers:
    - url: http://127.0.0.1:8545
`
}

// DefaultNetworks parses DefaultConfiguration
func DefaultNetworks() (Networks, error) {
	return Parse([]byte(DefaultConfiguration()))
}
