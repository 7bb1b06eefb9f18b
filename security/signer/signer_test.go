package signer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocklords/deployer/configuration"
	"github.com/blocklords/deployer/log"
	"github.com/blocklords/deployer/security/vault"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	eth_common "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
)

const (
	// the first account of the hardhat node
	hardhat_key     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	hardhat_address = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

type TestSignerSuite struct {
	suite.Suite
	logger *log.Logger
	ctx    context.Context
}

func (suite *TestSignerSuite) SetupTest() {
	keys := []string{
		SIGNER, PRIVATE_KEY, KEYSTORE_PATH, KEYSTORE_PASSWORD,
		vault.HOST, vault.PORT, vault.APPROLE_ROLE_ID, vault.APPROLE_SECRET_ID,
	}
	for _, key := range keys {
		suite.T().Setenv(key, "")
		suite.Require().NoError(os.Unsetenv(key))
	}

	logger, err := log.NewWithOutput(io.Discard, "test", log.WITHOUT_TIMESTAMP)
	suite.Require().NoError(err)
	suite.logger = logger
	suite.ctx = context.Background()
}

func (suite *TestSignerSuite) config() *configuration.Config {
	config, err := configuration.New(suite.logger, nil)
	suite.Require().NoError(err)
	return config
}

func (suite *TestSignerSuite) TestHexToKey() {
	with_prefix, err := HexToKey(hardhat_key)
	suite.Require().NoError(err)
	without_prefix, err := HexToKey(hardhat_key[2:])
	suite.Require().NoError(err)
	suite.Require().True(with_prefix.Equal(without_prefix))

	_, err = HexToKey("")
	suite.Require().Error(err)
	_, err = HexToKey("0x1234")
	suite.Require().Error(err)
}

func (suite *TestSignerSuite) TestNoSigner() {
	_, err := New(suite.ctx, suite.config(), suite.logger)
	suite.Require().ErrorIs(err, ErrNoSigner)

	suite.T().Setenv(SIGNER, "ledger")
	_, err = New(suite.ctx, suite.config(), suite.logger)
	suite.Require().Error(err)
}

func (suite *TestSignerSuite) TestPrivateKey() {
	suite.T().Setenv(PRIVATE_KEY, hardhat_key)

	signer, err := New(suite.ctx, suite.config(), suite.logger)
	suite.Require().NoError(err)
	suite.Require().Equal(SOURCE_PRIVATE_KEY, signer.Source())
	suite.Require().Equal(eth_common.HexToAddress(hardhat_address), signer.Address())

	opts, err := signer.TransactOpts(suite.ctx, nil)
	suite.Require().Error(err)
	suite.Require().Nil(opts)

	opts, err = signer.TransactOpts(suite.ctx, eth_common.Big1)
	suite.Require().NoError(err)
	suite.Require().Equal(signer.Address(), opts.From)
	suite.Require().Equal(suite.ctx, opts.Context)

	// the explicit source overrides the detection
	suite.T().Setenv(SIGNER, string(SOURCE_KEYSTORE))
	_, err = New(suite.ctx, suite.config(), suite.logger)
	suite.Require().Error(err)
}

func (suite *TestSignerSuite) TestKeystore() {
	key, err := HexToKey(hardhat_key)
	suite.Require().NoError(err)

	store := keystore.NewKeyStore(suite.T().TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	account, err := store.ImportECDSA(key, "casino")
	suite.Require().NoError(err)

	suite.T().Setenv(KEYSTORE_PATH, account.URL.Path)
	suite.T().Setenv(KEYSTORE_PASSWORD, "casino")

	signer, err := New(suite.ctx, suite.config(), suite.logger)
	suite.Require().NoError(err)
	suite.Require().Equal(SOURCE_KEYSTORE, signer.Source())
	suite.Require().Equal(account.Address, signer.Address())

	suite.T().Setenv(KEYSTORE_PASSWORD, "roulette")
	_, err = New(suite.ctx, suite.config(), suite.logger)
	suite.Require().Error(err)

	suite.T().Setenv(KEYSTORE_PASSWORD, "casino")
	suite.T().Setenv(KEYSTORE_PATH, filepath.Join(suite.T().TempDir(), "missing.json"))
	_, err = New(suite.ctx, suite.config(), suite.logger)
	suite.Require().Error(err)
}

func (suite *TestSignerSuite) TestVault() {
	revoked := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/approle/login":
			_, _ = w.Write([]byte(`{"auth": {"client_token": "hvs.signer", "lease_duration": 3600}}`))
		case "/v1/secret/data/deployer":
			_, _ = w.Write([]byte(`{"data": {"data": {"private_key": "` + hardhat_key + `"}, "metadata": {"created_time": "2023-03-22T02:24:06.945319214Z", "deletion_time": "", "destroyed": false, "version": 1}}}`))
		case "/v1/auth/token/revoke-self":
			revoked = true
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	server_url, err := url.Parse(server.URL)
	suite.Require().NoError(err)
	suite.T().Setenv(vault.HOST, server_url.Hostname())
	suite.T().Setenv(vault.PORT, server_url.Port())
	suite.T().Setenv(vault.APPROLE_ROLE_ID, "role")
	suite.T().Setenv(vault.APPROLE_SECRET_ID, "secret")

	signer, err := New(suite.ctx, suite.config(), suite.logger)
	suite.Require().NoError(err)
	suite.Require().Equal(SOURCE_VAULT, signer.Source())
	suite.Require().Equal(eth_common.HexToAddress(hardhat_address), signer.Address())
	suite.Require().True(revoked)
}

func TestSigner(t *testing.T) {
	suite.Run(t, new(TestSignerSuite))
}
