// Package artifact keeps the compiled smartcontracts.
//
// The contract factory is created from the artifact: the json file
// with the abi and the creation bytecode. Hardhat and Foundry
// artifact formats are supported.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// Artifact is the compiled smartcontract
type Artifact struct {
	ContractName string          // Casino
	SourceName   string          // contracts/Casino.sol
	Abi          json.RawMessage // the abi json as is
	Bytecode     string          // the creation code in hex format
	Path         string          // file from where the artifact was read
}

// raw_artifact has the fields of both formats.
// Hardhat stores the bytecode as a string,
// Foundry stores it as an object.
type raw_artifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	Abi          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
}

type raw_bytecode struct {
	Object string `json:"object"`
}

type raw_metadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// FullyQualifiedName is the unique name of the contract: "<source>:<contract>"
func (artifact *Artifact) FullyQualifiedName() string {
	if len(artifact.SourceName) == 0 {
		return artifact.ContractName
	}
	return artifact.SourceName + ":" + artifact.ContractName
}

// Parse the artifact file content.
//
// The second returned value is false, if the data is a valid json,
// but not a contract artifact.
func Parse(path string, data []byte) (*Artifact, bool, error) {
	var raw raw_artifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal(%s): %w", path, err)
	}

	abi := bytes.TrimSpace(raw.Abi)
	if len(abi) == 0 || abi[0] != '[' || len(raw.Bytecode) == 0 {
		return nil, false, nil
	}

	bytecode, err := parse_bytecode(raw.Bytecode)
	if err != nil {
		return nil, false, fmt.Errorf("%s bytecode: %w", path, err)
	}

	artifact := Artifact{
		ContractName: raw.ContractName,
		SourceName:   raw.SourceName,
		Abi:          raw.Abi,
		Bytecode:     bytecode,
		Path:         path,
	}

	// Foundry doesn't have the names in the artifact.
	// They are in the compilation target of metadata.
	if len(artifact.ContractName) == 0 || len(artifact.SourceName) == 0 {
		source, contract := compilation_target(raw.Metadata)
		if len(artifact.ContractName) == 0 {
			artifact.ContractName = contract
		}
		if len(artifact.SourceName) == 0 {
			artifact.SourceName = source
		}
	}
	// out/Casino.sol/Casino.json
	if len(artifact.ContractName) == 0 {
		artifact.ContractName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(artifact.SourceName) == 0 {
		dir := filepath.Base(filepath.Dir(path))
		if strings.HasSuffix(dir, ".sol") {
			artifact.SourceName = dir
		}
	}

	return &artifact, true, nil
}

func parse_bytecode(raw json.RawMessage) (string, error) {
	var bytecode string
	if err := json.Unmarshal(raw, &bytecode); err == nil {
		return bytecode, nil
	}

	var object raw_bytecode
	if err := json.Unmarshal(raw, &object); err != nil {
		return "", fmt.Errorf("neither a string nor an object: %w", err)
	}
	return object.Object, nil
}

// compilation_target returns the source and the contract name from
// the solidity metadata. The metadata could be an object or a json string.
func compilation_target(raw json.RawMessage) (string, string) {
	if len(raw) == 0 {
		return "", ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		raw = json.RawMessage(text)
	}

	var metadata raw_metadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return "", ""
	}
	for source, contract := range metadata.Settings.CompilationTarget {
		return source, contract
	}
	return "", ""
}
