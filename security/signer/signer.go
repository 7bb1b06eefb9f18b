// Package signer acquires the account that signs the deployment.
//
// The private key comes from one of the sources:
//   - the hex encoded private key in the environment,
//   - the encrypted keystore file,
//   - the Hashicorp Vault.
package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/blocklords/deployer/configuration"
	"github.com/blocklords/deployer/log"
	"github.com/blocklords/deployer/security/vault"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	eth_common "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/term"
)

// ErrNoSigner is returned when none of the sources are configured
var ErrNoSigner = errors.New("no signer configured")

// Source of the private key
type Source string

const (
	SOURCE_PRIVATE_KEY Source = "private-key"
	SOURCE_KEYSTORE    Source = "keystore"
	SOURCE_VAULT       Source = "vault"
)

const (
	SIGNER            = "DEPLOYER_SIGNER"
	PRIVATE_KEY       = "DEPLOYER_PRIVATE_KEY"
	KEYSTORE_PATH     = "DEPLOYER_KEYSTORE_PATH"
	KEYSTORE_PASSWORD = "DEPLOYER_KEYSTORE_PASSWORD"
)

// SignerConfigurations are the parameters of the signer.
// All of them are optional, but at least one source must be given.
var SignerConfigurations = configuration.DefaultConfig{
	Title: "Signer",
	Parameters: map[string]interface{}{
		SIGNER:            nil,
		PRIVATE_KEY:       nil,
		KEYSTORE_PATH:     nil,
		KEYSTORE_PASSWORD: nil,
	},
}

// Signer is the deployment account
type Signer struct {
	key     *ecdsa.PrivateKey
	address eth_common.Address
	source  Source
}

// NewFromKey creates the signer from the given private key
func NewFromKey(key *ecdsa.PrivateKey, source Source) *Signer {
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		source:  source,
	}
}

// New acquires the signer from the source set by DEPLOYER_SIGNER.
// If the source is not set, then the first configured source is used
// in the order: private key, keystore, vault.
func New(ctx context.Context, app_config *configuration.Config, parent *log.Logger) (*Signer, error) {
	if app_config == nil {
		return nil, errors.New("missing configuration")
	}
	app_config.SetDefaults(SignerConfigurations)
	app_config.SetDefaults(vault.VaultConfigurations)

	logger := parent.Child("signer")

	source, err := detect(app_config)
	if err != nil {
		return nil, err
	}
	logger.Debug("acquiring the private key", "source", source)

	var key *ecdsa.PrivateKey
	switch source {
	case SOURCE_PRIVATE_KEY:
		key, err = HexToKey(app_config.GetString(PRIVATE_KEY))
	case SOURCE_KEYSTORE:
		key, err = fromKeystore(app_config.GetString(KEYSTORE_PATH), app_config.GetString(KEYSTORE_PASSWORD))
	case SOURCE_VAULT:
		key, err = fromVault(ctx, app_config, logger)
	default:
		return nil, fmt.Errorf("unsupported %s '%s', expected one of %s, %s or %s",
			SIGNER, source, SOURCE_PRIVATE_KEY, SOURCE_KEYSTORE, SOURCE_VAULT)
	}
	if err != nil {
		return nil, fmt.Errorf("%s signer: %w", source, err)
	}

	signer := NewFromKey(key, source)
	logger.Info("signer loaded", "address", signer.address.Hex(), "source", source)

	return signer, nil
}

func detect(app_config *configuration.Config) (Source, error) {
	if app_config.Exist(SIGNER) {
		return Source(app_config.GetString(SIGNER)), nil
	}
	switch {
	case app_config.Exist(PRIVATE_KEY):
		return SOURCE_PRIVATE_KEY, nil
	case app_config.Exist(KEYSTORE_PATH):
		return SOURCE_KEYSTORE, nil
	case vault.Configured(app_config):
		return SOURCE_VAULT, nil
	}
	return "", fmt.Errorf("%w: set %s, %s or the vault approle credentials", ErrNoSigner, PRIVATE_KEY, KEYSTORE_PATH)
}

// HexToKey parses the hex encoded private key.
// The 0x prefix is optional.
func HexToKey(hex_key string) (*ecdsa.PrivateKey, error) {
	hex_key = strings.TrimSpace(hex_key)
	if len(hex_key) == 0 {
		return nil, errors.New("empty private key")
	}
	hex_key = strings.TrimPrefix(strings.TrimPrefix(hex_key, "0x"), "0X")

	key, err := crypto.HexToECDSA(hex_key)
	if err != nil {
		return nil, fmt.Errorf("crypto.HexToECDSA: %w", err)
	}
	return key, nil
}

func fromKeystore(path string, password string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	if len(password) == 0 {
		password, err = readPassword(path)
		if err != nil {
			return nil, err
		}
	}

	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("keystore.DecryptKey(%s): %w", path, err)
	}
	return key.PrivateKey, nil
}

// readPassword asks the keystore password in the terminal.
// Fails if the input is not the terminal.
func readPassword(path string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("missing %s and the standard input is not a terminal", KEYSTORE_PASSWORD)
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", path)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("term.ReadPassword: %w", err)
	}
	return string(password), nil
}

func fromVault(ctx context.Context, app_config *configuration.Config, logger *log.Logger) (*ecdsa.PrivateKey, error) {
	v, err := vault.New(ctx, app_config, logger)
	if err != nil {
		return nil, fmt.Errorf("vault.New: %w", err)
	}

	hex_key, err := v.GetString(ctx, app_config.GetString(vault.SECRET), app_config.GetString(vault.KEY))
	close_err := v.Close(ctx)
	if err != nil {
		return nil, fmt.Errorf("vault.GetString: %w", err)
	}
	if close_err != nil {
		logger.Warn("failed to revoke the vault token", "error", close_err)
	}

	return HexToKey(hex_key)
}

// Address of the signer
func (signer *Signer) Address() eth_common.Address {
	return signer.address
}

// Source where the private key was taken from
func (signer *Signer) Source() Source {
	return signer.source
}

// TransactOpts returns the transaction parameters signed by this signer
// for the given chain.
func (signer *Signer) TransactOpts(ctx context.Context, chain_id *big.Int) (*bind.TransactOpts, error) {
	if chain_id == nil {
		return nil, errors.New("missing chain id")
	}
	opts, err := bind.NewKeyedTransactorWithChainID(signer.key, chain_id)
	if err != nil {
		return nil, fmt.Errorf("bind.NewKeyedTransactorWithChainID: %w", err)
	}
	opts.Context = ctx

	return opts, nil
}
