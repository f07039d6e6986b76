package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	vault "github.com/hashicorp/vault/api"

	"fitcheck/internal/errors"
)

// VaultConfig holds Vault connection and secret path settings
type VaultConfig struct {
	Enabled   bool         `mapstructure:"enabled"`
	Address   string       `mapstructure:"address"`
	Token     string       `mapstructure:"token"`
	MountPath string       `mapstructure:"mount_path"`
	Secrets   VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets maps configuration secrets to their KV v2 locations
type VaultSecrets struct {
	AIAPIKeyPath       string `mapstructure:"ai_api_key_path"`
	AIAPIKeyField      string `mapstructure:"ai_api_key_field"`
	ServerAPIKeysPath  string `mapstructure:"server_api_keys_path"`
	ServerAPIKeysField string `mapstructure:"server_api_keys_field"`
}

// VaultClient wraps the Vault API client for KV v2 secret reads
type VaultClient struct {
	client    *vault.Client
	mountPath string
}

// NewVaultClient creates a Vault client from the configuration. The token
// falls back to the VAULT_TOKEN environment variable.
func NewVaultClient(cfg *VaultConfig) (*VaultClient, error) {
	vaultConfig := vault.DefaultConfig()
	if cfg.Address != "" {
		vaultConfig.Address = cfg.Address
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create Vault client", err)
	}

	token := cfg.Token
	if token == "" {
		token = os.Getenv("VAULT_TOKEN")
	}
	if token == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Vault enabled but no token configured", nil)
	}
	client.SetToken(token)

	mountPath := cfg.MountPath
	if mountPath == "" {
		mountPath = "secret"
	}

	return &VaultClient{client: client, mountPath: mountPath}, nil
}

// GetSecretV2 reads a KV v2 secret at path
func (vc *VaultClient) GetSecretV2(ctx context.Context, path string) (map[string]any, error) {
	secret, err := vc.client.KVv2(vc.mountPath).Get(ctx, path)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read Vault secret at %s", path), err)
	}
	if secret == nil || secret.Data == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret at %s is empty", path), nil)
	}
	return secret.Data, nil
}

// GetStringSecret reads a single string field from a KV v2 secret
func (vc *VaultClient) GetStringSecret(ctx context.Context, path, field string) (string, error) {
	data, err := vc.GetSecretV2(ctx, path)
	if err != nil {
		return "", err
	}
	value, ok := data[field].(string)
	if !ok {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret %s has no string field %s", path, field), nil)
	}
	return value, nil
}

// GetStringSliceSecret reads a list field from a KV v2 secret
func (vc *VaultClient) GetStringSliceSecret(ctx context.Context, path, field string) ([]string, error) {
	data, err := vc.GetSecretV2(ctx, path)
	if err != nil {
		return nil, err
	}

	raw, ok := data[field]
	if !ok {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret %s has no field %s", path, field), nil)
	}

	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
					fmt.Sprintf("Vault secret %s field %s contains non-string items", path, field), nil)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{v}, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Vault secret %s field %s has unsupported type", path, field), nil)
	}
}

// ApplyVaultSecrets loads secrets from Vault into the configuration,
// without overwriting values already set locally.
func ApplyVaultSecrets(cfg *Config) error {
	vc, err := NewVaultClient(&cfg.Vault)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.AI.APIKey == "" && cfg.Vault.Secrets.AIAPIKeyPath != "" {
		key, err := vc.GetStringSecret(ctx, cfg.Vault.Secrets.AIAPIKeyPath, cfg.Vault.Secrets.AIAPIKeyField)
		if err != nil {
			return err
		}
		cfg.AI.APIKey = key
		log.Println("[CONFIG] AI API key loaded from Vault")
	}

	if len(cfg.Server.Auth.APIKeys) == 0 && cfg.Vault.Secrets.ServerAPIKeysPath != "" {
		keys, err := vc.GetStringSliceSecret(ctx, cfg.Vault.Secrets.ServerAPIKeysPath, cfg.Vault.Secrets.ServerAPIKeysField)
		if err != nil {
			return err
		}
		cfg.Server.Auth.APIKeys = keys
		log.Printf("[CONFIG] %d server API key(s) loaded from Vault", len(keys))
	}

	return nil
}
