// Deployer publishes the compiled smartcontract to the EVM blockchain.
//
// The deployment goes in the order:
//   - acquire the deployer's account (private key, keystore or vault)
//   - print the balance of the deployer in Ether
//   - find the contract factory in the compiled artifacts
//   - submit the contract creation and wait for the confirmation
//   - print the address of the deployed contract
//
// Any failure stops the deployment with the exit code 1.
// Run "deployer --help" for the commands and the flags.
package main

import (
	"os"

	"github.com/blocklords/deployer/command"
)

func main() {
	os.Exit(command.Run(os.Args[1:], os.Stdout, os.Stderr))
}
