package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	eth_common "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	eth_types "github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrAbstract is returned for the interfaces and abstract contracts
	ErrAbstract = errors.New("contract has no bytecode")
	// ErrUnlinked is returned if the bytecode has the library placeholders
	ErrUnlinked = errors.New("bytecode has unlinked libraries")
)

// Factory deploys the new instances of the contract
type Factory struct {
	Name     string // fully qualified name
	Abi      abi.ABI
	Bytecode []byte
}

// NewFactory parses the abi and the bytecode of the artifact
func NewFactory(artifact *Artifact) (*Factory, error) {
	name := artifact.FullyQualifiedName()

	code := strings.TrimSpace(artifact.Bytecode)
	if len(code) > 0 && !strings.HasPrefix(code, "0x") && !strings.HasPrefix(code, "0X") {
		code = "0x" + code
	}
	if len(code) <= 2 {
		return nil, fmt.Errorf("%w: %s", ErrAbstract, name)
	}
	// hardhat uses __$<hash>$__, older compilers use __<name>__
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("%w: %s", ErrUnlinked, name)
	}

	bytecode, err := hexutil.Decode(strings.ToLower(code))
	if err != nil {
		return nil, fmt.Errorf("%s bytecode hexutil.Decode: %w", name, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.Abi))
	if err != nil {
		return nil, fmt.Errorf("%s abi.JSON: %w", name, err)
	}

	return &Factory{
		Name:     name,
		Abi:      parsed,
		Bytecode: bytecode,
	}, nil
}

// Deploy submits the contract creation transaction.
// The params are the constructor arguments.
//
// Returns the address of the contract that is created
// once the transaction is mined.
func (factory *Factory) Deploy(opts *bind.TransactOpts, backend bind.ContractBackend, params ...interface{}) (eth_common.Address, *eth_types.Transaction, error) {
	address, tx, _, err := bind.DeployContract(opts, factory.Abi, factory.Bytecode, backend, params...)
	if err != nil {
		return eth_common.Address{}, nil, fmt.Errorf("bind.DeployContract(%s): %w", factory.Name, err)
	}

	return address, tx, nil
}
