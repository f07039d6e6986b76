package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.log_level", "info")

	// AI
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.embed_model", "text-embedding-004")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.temperature", 0.1)

	// Circuit breaker
	v.SetDefault("ai.circuit_breaker.enabled", true)
	v.SetDefault("ai.circuit_breaker.max_requests", 3)
	v.SetDefault("ai.circuit_breaker.interval", 60*time.Second)
	v.SetDefault("ai.circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("ai.circuit_breaker.failure_threshold", 5)
	v.SetDefault("ai.circuit_breaker.min_requests", 3)

	// Engine
	v.SetDefault("engine.augmentation_budget", 45*time.Second)
	v.SetDefault("engine.max_keywords", 30)
	v.SetDefault("engine.max_requirements", 8)

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.max_request_size", int64(1<<20))
	v.SetDefault("server.auth.enabled", false)
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.requests_per_minute", 60)
	v.SetDefault("server.rate_limit.burst", 10)
	v.SetDefault("server.tls.mode", TLSModeDisabled)
	v.SetDefault("server.tls.min_version", "1.2")
	v.SetDefault("server.tls.auto_reload", false)

	// Vault
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secrets.ai_api_key_path", "fitcheck/ai")
	v.SetDefault("vault.secrets.ai_api_key_field", "api_key")
	v.SetDefault("vault.secrets.server_api_keys_path", "fitcheck/server")
	v.SetDefault("vault.secrets.server_api_keys_field", "api_keys")
}
