package provider

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// Define the suite, and absorb the built-in basic suite
// functionality from testify - including a T() method which
// returns the current testing context
type TestProviderSuite struct {
	suite.Suite
	provider Provider
}

func (suite *TestProviderSuite) SetupTest() {
	suite.provider = Provider{
		Url: "https://sample.com",
	}
}

func (suite *TestProviderSuite) TestNew() {
	// the url is empty
	_, err := New("")
	suite.Require().Error(err)

	// the protocol is not supported
	_, err = New("ftp://sample.com")
	suite.Require().Error(err)

	// invalid url
	_, err = New("http://item asdsa")
	suite.Require().Error(err)

	// relative url
	_, err = New("sample.com")
	suite.Require().Error(err)

	// no host
	_, err = New("http:///path")
	suite.Require().Error(err)

	// websocket providers are allowed
	_, err = New("wss://sample.com/ws")
	suite.Require().NoError(err)

	// the correct provider
	provider, err := New("https://sample.com")
	suite.Require().NoError(err)
	suite.Require().EqualValues(suite.provider, provider)
	suite.Require().NoError(provider.Validate())

	suite.Require().Error(Provider{}.Validate())
}

func (suite *TestProviderSuite) TestNewList() {
	providers, err := NewList([]string{"https://sample.com", "http://127.0.0.1:8545"})
	suite.Require().NoError(err)
	suite.Require().Len(providers, 2)
	suite.Require().Equal(suite.provider, providers[0])

	_, err = NewList([]string{"https://sample.com", ""})
	suite.Require().Error(err)

	providers, err = NewList(nil)
	suite.Require().NoError(err)
	suite.Require().Empty(providers)
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestProvider(t *testing.T) {
	suite.Run(t, new(TestProviderSuite))
}
