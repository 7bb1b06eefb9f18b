package deployer

import (
	"errors"
	"fmt"
	"time"

	"github.com/blocklords/deployer/configuration"
)

const (
	CONTRACT  = "DEPLOYER_CONTRACT"
	ARTIFACTS = "DEPLOYER_ARTIFACTS"
	TIMEOUT   = "DEPLOYER_TIMEOUT"
	GAS_LIMIT = "DEPLOYER_GAS_LIMIT"
	LOG_LEVEL = "DEPLOYER_LOG_LEVEL"
)

// DeployerConfigurations are the default parameters of the deployment
var DeployerConfigurations = configuration.DefaultConfig{
	Title: "Deployer",
	Parameters: map[string]interface{}{
		CONTRACT:  "Casino",
		ARTIFACTS: "artifacts",
		TIMEOUT:   "10m",
		GAS_LIMIT: 0,
		LOG_LEVEL: "info",
	},
}

// Parameters of the deployment
type Parameters struct {
	Contract  string        `mapstructure:"deployer_contract"`
	Artifacts string        `mapstructure:"deployer_artifacts"`
	Timeout   time.Duration `mapstructure:"deployer_timeout"`
	// 0 means the gas is estimated by the node
	GasLimit uint64 `mapstructure:"deployer_gas_limit"`
	LogLevel string `mapstructure:"deployer_log_level"`
}

// NewParameters reads the deployment parameters from the configuration
func NewParameters(app_config *configuration.Config) (*Parameters, error) {
	app_config.SetDefaults(DeployerConfigurations)

	var parameters Parameters
	if err := app_config.Unmarshal(&parameters); err != nil {
		return nil, fmt.Errorf("app_config.Unmarshal: %w", err)
	}
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	return &parameters, nil
}

// Validate the parameters
func (parameters *Parameters) Validate() error {
	if len(parameters.Contract) == 0 {
		return fmt.Errorf("missing '%s'", CONTRACT)
	}
	if len(parameters.Artifacts) == 0 {
		return fmt.Errorf("missing '%s'", ARTIFACTS)
	}
	if parameters.Timeout < 0 {
		return errors.New("the timeout can not be negative")
	}
	return nil
}
