package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"fitcheck/internal/errors"
)

// Config holds the complete application configuration
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	AI     AIConfig     `mapstructure:"ai"`
	Engine EngineConfig `mapstructure:"engine"`
	Server ServerConfig `mapstructure:"server"`
	Vault  VaultConfig  `mapstructure:"vault"`
}

// AppConfig holds general application settings
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// AIConfig holds the inference provider settings
type AIConfig struct {
	Provider       string               `mapstructure:"provider"`
	APIKey         string               `mapstructure:"api_key"`
	Model          string               `mapstructure:"model"`
	EmbedModel     string               `mapstructure:"embed_model"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	MaxRetries     int                  `mapstructure:"max_retries"`
	Temperature    float32              `mapstructure:"temperature"`
	Enabled        bool                 `mapstructure:"-"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Operations     OperationsConfig     `mapstructure:"operations"`
}

// OperationsConfig holds per-operation overrides for the two inference
// call shapes.
type OperationsConfig struct {
	Similarity     OperationAIConfig `mapstructure:"similarity"`
	Classification OperationAIConfig `mapstructure:"classification"`
}

// OperationAIConfig overrides base AI settings for one operation.
// Nil fields inherit the base value.
type OperationAIConfig struct {
	Model       *string        `mapstructure:"model"`
	Timeout     *time.Duration `mapstructure:"timeout"`
	MaxRetries  *int           `mapstructure:"max_retries"`
	Temperature *float32       `mapstructure:"temperature"`
}

// CircuitBreakerConfig holds circuit breaker settings
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	MinRequests      uint32        `mapstructure:"min_requests"`
}

// EngineConfig holds analysis pipeline settings
type EngineConfig struct {
	AugmentationBudget time.Duration `mapstructure:"augmentation_budget"`
	MaxKeywords        int           `mapstructure:"max_keywords"`
	MaxRequirements    int           `mapstructure:"max_requirements"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host           string          `mapstructure:"host"`
	Port           int             `mapstructure:"port"`
	ReadTimeout    time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration   `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration   `mapstructure:"idle_timeout"`
	MaxRequestSize int64           `mapstructure:"max_request_size"`
	Auth           AuthConfig      `mapstructure:"auth"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
	TLS            TLSConfig       `mapstructure:"tls"`
}

// AuthConfig holds API authentication settings
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	APIKeys []string `mapstructure:"api_keys"`
}

// RateLimitConfig holds per-client rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// TLS modes
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
	TLSModeMutual   = "mutual"
)

// TLSConfig holds TLS settings for the HTTP server
type TLSConfig struct {
	Mode         string `mapstructure:"mode"`
	CertFile     string `mapstructure:"cert_file"`
	KeyFile      string `mapstructure:"key_file"`
	ClientCAFile string `mapstructure:"client_ca_file"`
	MinVersion   string `mapstructure:"min_version"`
	AutoReload   bool   `mapstructure:"auto_reload"`
}

// LoadConfig reads configuration from defaults, an optional yaml file and
// FITCHECK_* environment variables, then resolves secrets and derived
// fields.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("fitcheck")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/fitcheck")
	v.AddConfigPath("$HOME/.fitcheck")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FITCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to read config file", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment")
	} else {
		log.Printf("[CONFIG] Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to unmarshal config", err)
	}

	applyFallbacks(&cfg)

	if cfg.Vault.Enabled {
		if err := ApplyVaultSecrets(&cfg); err != nil {
			return nil, err
		}
	}

	// Augmentation availability is decided once, here, from key presence.
	cfg.AI.Enabled = cfg.AI.APIKey != ""

	applyOperationDefaults(&cfg.AI)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logConfigurationSources(&cfg)
	return &cfg, nil
}

// applyFallbacks resolves values from well-known environment variables
// when the prefixed forms are unset.
func applyFallbacks(cfg *Config) {
	if cfg.AI.APIKey == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.AI.APIKey = key
			log.Println("[CONFIG] AI API key loaded from GEMINI_API_KEY")
		}
	}
}

// applyOperationDefaults fills unset per-operation fields from the base
// AI configuration.
func applyOperationDefaults(ai *AIConfig) {
	for _, op := range []*OperationAIConfig{&ai.Operations.Similarity, &ai.Operations.Classification} {
		if op.Model == nil {
			model := ai.Model
			op.Model = &model
		}
		if op.Timeout == nil {
			timeout := ai.Timeout
			op.Timeout = &timeout
		}
		if op.MaxRetries == nil {
			retries := ai.MaxRetries
			op.MaxRetries = &retries
		}
		if op.Temperature == nil {
			temp := ai.Temperature
			op.Temperature = &temp
		}
	}
	// Similarity runs on the embedding model.
	if *ai.Operations.Similarity.Model == ai.Model {
		model := ai.EmbedModel
		ai.Operations.Similarity.Model = &model
	}
}

// GetSimilarityConfig returns the resolved settings for embedding calls.
func (c *Config) GetSimilarityConfig() OperationAIConfig {
	return c.AI.Operations.Similarity
}

// GetClassificationConfig returns the resolved settings for
// classification calls.
func (c *Config) GetClassificationConfig() OperationAIConfig {
	return c.AI.Operations.Classification
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	switch c.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid log level: %s", c.App.LogLevel), nil)
	}

	if c.AI.Provider != "gemini" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported AI provider: %s", c.AI.Provider), nil)
	}

	if c.AI.MaxRetries < 0 || c.AI.MaxRetries > 10 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"ai.max_retries must be between 0 and 10", nil)
	}

	if c.Engine.AugmentationBudget <= 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"engine.augmentation_budget must be positive", nil)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	return c.ValidateTLSConfig()
}

// ValidateTLSConfig checks the TLS mode and its required files.
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS
	switch tls.Mode {
	case TLSModeDisabled:
		return nil
	case TLSModeServer, TLSModeMutual:
	default:
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid TLS mode: %s", tls.Mode), nil)
	}

	if tls.CertFile == "" || tls.KeyFile == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"TLS requires cert_file and key_file", nil)
	}
	if tls.Mode == TLSModeMutual && tls.ClientCAFile == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"mutual TLS requires client_ca_file", nil)
	}
	return nil
}

// logConfigurationSources records where sensitive values came from
// without leaking them.
func logConfigurationSources(cfg *Config) {
	if cfg.AI.APIKey != "" {
		log.Printf("[CONFIG] AI augmentation enabled (api key %s)", maskSecret(cfg.AI.APIKey))
	} else {
		log.Println("[CONFIG] AI augmentation disabled: no API key configured")
	}
	if cfg.Server.Auth.Enabled {
		log.Printf("[CONFIG] Server auth enabled with %d API key(s)", len(cfg.Server.Auth.APIKeys))
	}
	if cfg.Vault.Enabled {
		log.Printf("[CONFIG] Vault secret loading enabled (%s)", cfg.Vault.Address)
	}
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
