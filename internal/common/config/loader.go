package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (plus an environment-specific overlay)
// and applies environment variable overrides like GATEWAY_BASE_URL.
func Load() (*Config, error) {
	// Best effort; system environment wins when no .env exists.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // overlay is optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "complaint-console")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8081")
	v.SetDefault("server.read_timeout", 10000)
	v.SetDefault("server.write_timeout", 30000)
	v.SetDefault("server.shutdown_timeout", 10000)

	// Empty default so the env override is visible to Unmarshal.
	v.SetDefault("gateway.base_url", "")
	v.SetDefault("gateway.user_id", "console-operator")
	v.SetDefault("gateway.timeout", 30000)
	v.SetDefault("gateway.similar_limit", 5)
	v.SetDefault("gateway.similar_timeout", 10000)

	v.SetDefault("assistant.enabled", false)
	v.SetDefault("assistant.timeout", 30000)
	v.SetDefault("assistant.max_tokens", 1024)
	v.SetDefault("assistant.temperature", 0.4)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_ttl", 120)

	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.topic", "complaint-decisions")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func validate(cfg *Config) error {
	if cfg.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if cfg.Assistant.Enabled && cfg.Assistant.BaseURL == "" {
		return fmt.Errorf("assistant.base_url is required when the assistant is enabled")
	}
	if cfg.Audit.Enabled && len(cfg.Audit.Brokers) == 0 {
		return fmt.Errorf("audit.brokers is required when the audit stream is enabled")
	}
	return nil
}
