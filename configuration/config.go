// Package configuration defines a configuration engine for the entire app.
//
// The configuration features:
//   - automatically loads the environment variables files passed as arguments.
//   - allows setting default variables if user didn't define them.
//   - command line flags, when given, override the environment.
package configuration

import (
	"fmt"

	"github.com/blocklords/deployer/configuration/argument"
	"github.com/blocklords/deployer/configuration/env"
	"github.com/blocklords/deployer/log"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config Configuration Engine based on viper.Viper
type Config struct {
	viper  *viper.Viper // used to keep default values
	logger *log.Logger  // debug purpose only
}

// New creates a configuration for the entire application.
// The args without '--' prefix are the paths to the environment files.
// Loads the environment variables.
func New(parent *log.Logger, args []string) (*Config, error) {
	logger := parent.Child("configuration")

	paths := argument.GetEnvPaths(args)
	logger.Debug("Loading environment files passed as app arguments", "paths", paths)

	if err := env.LoadAnyEnv(paths); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	conf := Config{
		viper:  viper.New(),
		logger: logger,
	}
	conf.viper.AutomaticEnv()

	return &conf, nil
}

// SetDefaults sets the default configuration parameters.
func (config *Config) SetDefaults(default_config DefaultConfig) {
	config.logger.Debug("Set the default config parameters for", "title", default_config.Title)

	for name, value := range default_config.Parameters {
		if value == nil {
			continue
		}
		config.SetDefault(name, value)
	}
}

// SetDefault sets the default configuration name to the value
func (config *Config) SetDefault(name string, value interface{}) {
	config.viper.SetDefault(name, value)
}

// BindFlag overrides the configuration by the command line flag.
// The flag takes effect only if it was passed by the user.
func (config *Config) BindFlag(name string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for %s", name)
	}
	if err := config.viper.BindPFlag(name, flag); err != nil {
		return fmt.Errorf("viper.BindPFlag(%s): %w", name, err)
	}
	return nil
}

// Exist checks whether the configuration variable exists or not
// If the configuration exists or its default value exists, then returns true.
func (config *Config) Exist(name string) bool {
	value := config.viper.GetString(name)
	return len(value) > 0
}

// GetString returns the configuration parameter as a string
func (config *Config) GetString(name string) string {
	return config.viper.GetString(name)
}

// GetBool returns the configuration parameter as a boolean
func (config *Config) GetBool(name string) bool {
	return config.viper.GetBool(name)
}

// Unmarshal decodes the registered parameters into the structure.
// The fields are matched by the `mapstructure` tags.
// The durations are in time.ParseDuration format, for example "90s" or "10m".
// Invalid numbers and durations are returned as an error.
func (config *Config) Unmarshal(out interface{}) error {
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := config.viper.Unmarshal(out, hook); err != nil {
		return fmt.Errorf("viper.Unmarshal: %w", err)
	}
	return nil
}
