// Package config loads the console service configuration from yaml files
// and environment variables.
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the console HTTP API settings.
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// GatewayConfig holds the review backend settings. BaseURL is the only
// value the workflow strictly requires from the environment.
type GatewayConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserID         string `mapstructure:"user_id"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	SimilarLimit   int    `mapstructure:"similar_limit"`   // findSimilar page size
	SimilarTimeout int    `mapstructure:"similar_timeout"` // milliseconds
}

// AssistantConfig holds the generative-AI chat proxy settings.
type AssistantConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// RedisConfig holds the session store settings.
type RedisConfig struct {
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	SessionTTL int    `mapstructure:"session_ttl"` // minutes
}

// AuditConfig holds the decision event stream settings.
type AuditConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GatewayTimeout returns the backend call timeout as a duration.
func (g GatewayConfig) GatewayTimeout() time.Duration {
	return time.Duration(g.Timeout) * time.Millisecond
}

// SimilarFetchTimeout returns the detached similar-complaints fetch timeout.
func (g GatewayConfig) SimilarFetchTimeout() time.Duration {
	return time.Duration(g.SimilarTimeout) * time.Millisecond
}

// TTL returns the session expiry as a duration.
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.SessionTTL) * time.Minute
}
