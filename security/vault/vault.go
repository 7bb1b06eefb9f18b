// Package vault is the gateway between hashicorp vault and the deployer.
//
// The deployer keeps the private key of the deployment account
// in the Key-Value (version 2) secrets engine.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocklords/deployer/configuration"
	"github.com/blocklords/deployer/log"
	hashicorp "github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
)

const (
	HOST               = "DEPLOYER_VAULT_HOST"
	PORT               = "DEPLOYER_VAULT_PORT"
	HTTPS              = "DEPLOYER_VAULT_HTTPS"
	APPROLE_MOUNT_PATH = "DEPLOYER_VAULT_APPROLE_MOUNT_PATH"
	APPROLE_ROLE_ID    = "DEPLOYER_VAULT_APPROLE_ROLE_ID"
	APPROLE_SECRET_ID  = "DEPLOYER_VAULT_APPROLE_SECRET_ID"
	PATH               = "DEPLOYER_VAULT_PATH"
	SECRET             = "DEPLOYER_VAULT_SECRET"
	KEY                = "DEPLOYER_VAULT_KEY"
)

// Vault is the wrapper around hashicorp vault client along with
// the secret key path.
type Vault struct {
	logger *log.Logger
	client *hashicorp.Client
	path   string // Key-Value engine mount path

	// connection parameters
	approle_role_id    string
	approle_secret_id  string
	approle_mount_path string

	auth_token *hashicorp.Secret
}

// VaultConfigurations are setting the default configuration parameters.
//
// The values are the default values if it wasn't provided by the user
// Set the default value to nil, if the parameter is required from the user
var VaultConfigurations = configuration.DefaultConfig{
	Title: "Vault",
	Parameters: map[string]interface{}{
		HOST:               "localhost",
		PORT:               8200,
		HTTPS:              false,
		APPROLE_MOUNT_PATH: "approle",
		PATH:               "secret",
		SECRET:             "deployer",
		KEY:                "private_key",
		APPROLE_ROLE_ID:    nil,
		APPROLE_SECRET_ID:  nil,
	},
}

// Configured returns true if the approle credentials are given
func Configured(app_config *configuration.Config) bool {
	return app_config.Exist(APPROLE_ROLE_ID) || app_config.Exist(APPROLE_SECRET_ID)
}

// New vault that's connected to the remote Hashicorp Vault.
// The vault logs in with the AppRole credentials.
//
// If you run the Vault in the dev mode, then path should be "secret"
func New(ctx context.Context, app_config *configuration.Config, parent *log.Logger) (*Vault, error) {
	if app_config == nil {
		return nil, errors.New("missing configuration")
	}
	// AppRole RoleID to log in to Vault
	if !app_config.Exist(APPROLE_ROLE_ID) {
		return nil, fmt.Errorf("missing '%s' environment variable", APPROLE_ROLE_ID)
	}
	// AppRole SecretID to log in to Vault
	if !app_config.Exist(APPROLE_SECRET_ID) {
		return nil, fmt.Errorf("missing '%s' environment variable", APPROLE_SECRET_ID)
	}
	if !app_config.Exist(APPROLE_MOUNT_PATH) {
		return nil, fmt.Errorf("missing '%s' environment variable", APPROLE_MOUNT_PATH)
	}

	secure := app_config.GetBool(HTTPS)
	host := app_config.GetString(HOST)
	port := app_config.GetString(PORT)

	config := hashicorp.DefaultConfig()
	if config.Error != nil {
		return nil, fmt.Errorf("hashicorp.DefaultConfig: %w", config.Error)
	}
	if secure {
		config.Address = fmt.Sprintf("https://%s:%s", host, port)
	} else {
		config.Address = fmt.Sprintf("http://%s:%s", host, port)
	}

	client, err := hashicorp.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("hashicorp.NewClient: %w", err)
	}

	vault := Vault{
		client:             client,
		logger:             parent.Child("vault"),
		path:               app_config.GetString(PATH),
		approle_mount_path: app_config.GetString(APPROLE_MOUNT_PATH),
		approle_role_id:    app_config.GetString(APPROLE_ROLE_ID),
		approle_secret_id:  app_config.GetString(APPROLE_SECRET_ID),
	}

	token, err := vault.login(ctx)
	if err != nil {
		return nil, fmt.Errorf("vault login error: %w", err)
	}
	vault.auth_token = token

	return &vault, nil
}

// A combination of a RoleID and a SecretID is required to log into Vault
// with AppRole authentication method.
//
// ref: https://learn.hashicorp.com/tutorials/vault/approle-best-practices?in=vault/auth-methods#secretid-delivery-best-practices
func (v *Vault) login(ctx context.Context) (*hashicorp.Secret, error) {
	v.logger.Info("Vault login: begin", "address", v.client.Address())

	approleSecretID := &approle.SecretID{
		FromString: v.approle_secret_id,
	}

	appRoleAuth, err := approle.NewAppRoleAuth(
		v.approle_role_id,
		approleSecretID,
		approle.WithMountPath(v.approle_mount_path),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize approle authentication method: %w", err)
	}

	authInfo, err := v.client.Auth().Login(ctx, appRoleAuth)
	if err != nil {
		return nil, fmt.Errorf("unable to login using approle auth method: %w", err)
	}
	if authInfo == nil {
		return nil, fmt.Errorf("no approle info was returned after login")
	}

	v.logger.Info("Vault login: success!")

	return authInfo, nil
}

// GetString returns the string in the secret, by key
func (v *Vault) GetString(ctx context.Context, secret_name string, key string) (string, error) {
	secret, err := v.client.KVv2(v.path).Get(ctx, secret_name)
	if err != nil {
		return "", fmt.Errorf("vault.client.KVv2(%s).Get(%s): %w", v.path, secret_name, err)
	}

	raw, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("the secret %s has no '%s' key", secret_name, key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("the '%s' key of %s secret is %T, not a string", key, secret_name, raw)
	}

	return value, nil
}

// Close revokes the token of the login.
// The vault can't be used after closing.
func (v *Vault) Close(ctx context.Context) error {
	if v.auth_token == nil {
		return nil
	}

	if err := v.client.Auth().Token().RevokeSelfWithContext(ctx, ""); err != nil {
		return fmt.Errorf("token revoke-self: %w", err)
	}
	v.client.ClearToken()
	v.auth_token = nil

	v.logger.Info("Vault token revoked")
	return nil
}
