package client

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/blocklords/deployer/blockchain/evm/simulated"
	"github.com/blocklords/deployer/blockchain/network"
	"github.com/blocklords/deployer/blockchain/network/provider"
	eth_common "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	eth_types "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
)

const (
	// copies one byte of the runtime code (STOP) and returns it
	deployable_code = "0x6001600c60003960016000f300"
	// PUSH1 0 PUSH1 0 REVERT
	reverting_code = "0x60006000fd"
	// STOP without returning the runtime code
	empty_code = "0x00"
)

type TestClientSuite struct {
	suite.Suite
	key     *ecdsa.PrivateKey
	address eth_common.Address
	balance *big.Int
	backend *simulated.Backend
	client  *Client
	ctx     context.Context
}

func (suite *TestClientSuite) SetupTest() {
	key, err := crypto.GenerateKey()
	suite.Require().NoError(err)
	suite.key = key
	suite.address = crypto.PubkeyToAddress(key.PublicKey)
	suite.balance = new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
	suite.backend = simulated.New(suite.balance, key)
	suite.ctx = context.Background()

	client, err := NewWithBackend(suite.ctx, suite.backend, &network.Network{Id: "simulated"})
	suite.Require().NoError(err)
	suite.client = client
}

func (suite *TestClientSuite) TearDownTest() {
	suite.Require().NoError(suite.backend.Close())
}

// send the contract creation transaction signed by the suite key
func (suite *TestClientSuite) create(code string, gas uint64) *eth_types.Transaction {
	nonce, err := suite.backend.PendingNonceAt(suite.ctx, suite.address)
	suite.Require().NoError(err)
	head, err := suite.backend.HeaderByNumber(suite.ctx, nil)
	suite.Require().NoError(err)

	tip := big.NewInt(1_000_000_000)
	tx := eth_types.NewTx(&eth_types.DynamicFeeTx{
		ChainID:   suite.client.ChainID(),
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2))),
		Gas:       gas,
		Data:      hexutil.MustDecode(code),
	})
	signed, err := eth_types.SignTx(tx, eth_types.NewLondonSigner(suite.client.ChainID()), suite.key)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.backend.SendTransaction(suite.ctx, signed))

	return signed
}

func (suite *TestClientSuite) TestChainId() {
	suite.Require().Equal(uint64(1337), suite.client.ChainID().Uint64())

	// the returned chain id is a copy
	suite.client.ChainID().SetUint64(1)
	suite.Require().Equal(uint64(1337), suite.client.ChainID().Uint64())

	expected := &network.Network{
		Id:        "simulated",
		ChainId:   1337,
		Providers: []provider.Provider{{Url: "http://127.0.0.1:8545"}},
	}
	_, err := NewWithBackend(suite.ctx, suite.backend, expected)
	suite.Require().NoError(err)

	// the provider is on another chain
	expected.ChainId = 31337
	_, err = NewWithBackend(suite.ctx, suite.backend, expected)
	suite.Require().Error(err)
}

func (suite *TestClientSuite) TestNewWithoutProvider() {
	_, err := New(suite.ctx, &network.Network{Id: "empty"})
	suite.Require().Error(err)
}

func (suite *TestClientSuite) TestBalance() {
	balance, err := suite.client.Balance(suite.ctx, suite.address)
	suite.Require().NoError(err)
	suite.Require().Zero(suite.balance.Cmp(balance))

	// unknown account has nothing
	balance, err = suite.client.Balance(suite.ctx, eth_common.HexToAddress("0x01"))
	suite.Require().NoError(err)
	suite.Require().Zero(balance.Sign())
}

func (suite *TestClientSuite) TestWaitDeployed() {
	tx := suite.create(deployable_code, 100_000)

	receipt, err := suite.client.WaitDeployed(suite.ctx, tx)
	suite.Require().NoError(err)
	suite.Require().Equal(eth_types.ReceiptStatusSuccessful, receipt.Status)
	suite.Require().Equal(crypto.CreateAddress(suite.address, tx.Nonce()), receipt.ContractAddress)

	code, err := suite.backend.CodeAt(suite.ctx, receipt.ContractAddress, nil)
	suite.Require().NoError(err)
	suite.Require().Equal([]byte{0x00}, code)
}

func (suite *TestClientSuite) TestWaitReverted() {
	tx := suite.create(reverting_code, 100_000)

	receipt, err := suite.client.WaitDeployed(suite.ctx, tx)
	suite.Require().ErrorIs(err, ErrReverted)
	suite.Require().NotNil(receipt)
}

func (suite *TestClientSuite) TestWaitNoCode() {
	tx := suite.create(empty_code, 100_000)

	_, err := suite.client.WaitDeployed(suite.ctx, tx)
	suite.Require().ErrorIs(err, ErrNoCode)
}

func (suite *TestClientSuite) TestWaitNotCreation() {
	to := eth_common.HexToAddress("0x01")
	tx := eth_types.NewTx(&eth_types.DynamicFeeTx{To: &to})

	_, err := suite.client.WaitDeployed(suite.ctx, tx)
	suite.Require().Error(err)
}

func (suite *TestClientSuite) TestWaitNotMined() {
	suite.backend.AutoCommit = false
	tx := suite.create(deployable_code, 100_000)

	ctx, cancel := context.WithTimeout(suite.ctx, 1500*time.Millisecond)
	defer cancel()
	_, err := suite.client.WaitDeployed(ctx, tx)
	suite.Require().ErrorIs(err, context.DeadlineExceeded)

	// once the block is mined, the deployment is confirmed
	suite.backend.Commit()
	_, err = suite.client.WaitDeployed(suite.ctx, tx)
	suite.Require().NoError(err)
}

func TestClient(t *testing.T) {
	suite.Run(t, new(TestClientSuite))
}
