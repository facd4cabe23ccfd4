package config

import (
	"strings"
	"time"
)

// Config is the full service configuration. It is read once at startup and
// never mutated afterwards.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Chatbot  ChatbotConfig  `mapstructure:"chatbot" yaml:"chatbot"`
	Currency CurrencyConfig `mapstructure:"currency" yaml:"currency"`
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Addr            string `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     int    `mapstructure:"read_timeout" yaml:"read_timeout"`         // seconds
	WriteTimeout    int    `mapstructure:"write_timeout" yaml:"write_timeout"`       // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"` // seconds
	MetricsEnabled  bool   `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	Provider    string      `mapstructure:"provider" yaml:"provider"` // openai, anthropic
	Model       string      `mapstructure:"model" yaml:"model"`
	APIKey      string      `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string      `mapstructure:"base_url" yaml:"base_url"` // Optional, for OpenAI-compatible APIs
	Timeout     int         `mapstructure:"timeout" yaml:"timeout"`   // seconds
	MaxTokens   int         `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64     `mapstructure:"temperature" yaml:"temperature"`
	Retry       RetryConfig `mapstructure:"retry" yaml:"retry"`
}

// RetryConfig holds HTTP retry configuration for the LLM client
type RetryConfig struct {
	MaxAttempts       int `mapstructure:"max_attempts" yaml:"max_attempts"`
	Multiplier        int `mapstructure:"multiplier" yaml:"multiplier"`
	MaxWaitPerAttempt int `mapstructure:"max_wait_per_attempt" yaml:"max_wait_per_attempt"` // seconds
	MaxTotalWait      int `mapstructure:"max_total_wait" yaml:"max_total_wait"`             // seconds
}

// ChatbotConfig holds function-calling behaviour
type ChatbotConfig struct {
	MaxToolRounds int    `mapstructure:"max_tool_rounds" yaml:"max_tool_rounds"`
	SchemaMode    string `mapstructure:"schema_mode" yaml:"schema_mode"` // per_tool, shared
	PromptsDir    string `mapstructure:"prompts_dir" yaml:"prompts_dir"` // Optional overrides for embedded prompts
}

// CurrencyConfig holds the exchange-rate API configuration
type CurrencyConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	AppID   string `mapstructure:"app_id" yaml:"app_id"`
	Timeout int    `mapstructure:"timeout" yaml:"timeout"` // seconds
}

// CatalogConfig points at the product catalog
type CatalogConfig struct {
	CSVPath string `mapstructure:"csv_path" yaml:"csv_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	LogDir       string `mapstructure:"log_dir" yaml:"log_dir"`             // empty = console only
	FileLevel    string `mapstructure:"file_level" yaml:"file_level"`       // debug, info, warn, error
	ConsoleLevel string `mapstructure:"console_level" yaml:"console_level"` // debug, info, warn, error
}

// Schema modes
const (
	SchemaModePerTool = "per_tool"
	SchemaModeShared  = "shared"
)

// NormalizeSchemaMode trims and lower-cases mode; empty means per_tool
func NormalizeSchemaMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return SchemaModePerTool
	}
	return mode
}

// GetReadTimeout returns the read timeout as a time.Duration
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return seconds(c.ReadTimeout, 15)
}

// GetWriteTimeout returns the write timeout as a time.Duration.
// A request can span several LLM round-trips, so the default is generous.
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return seconds(c.WriteTimeout, 300)
}

// GetShutdownTimeout returns the graceful shutdown window
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return seconds(c.ShutdownTimeout, 10)
}

// GetTimeout returns the timeout as a time.Duration
func (c *LLMConfig) GetTimeout() time.Duration {
	return seconds(c.Timeout, 180)
}

// GetMaxTokens returns the max tokens with a default
func (c *LLMConfig) GetMaxTokens() int {
	if c.MaxTokens == 0 {
		return 1024
	}
	return c.MaxTokens
}

// GetTimeout returns the timeout as a time.Duration
func (c *CurrencyConfig) GetTimeout() time.Duration {
	return seconds(c.Timeout, 30)
}

// GetMaxToolRounds returns the round budget with a default
func (c *ChatbotConfig) GetMaxToolRounds() int {
	if c.MaxToolRounds <= 0 {
		return 8
	}
	return c.MaxToolRounds
}

func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}

// Masked returns a copy of c with secrets replaced, for display
func (c Config) Masked() Config {
	c.LLM.APIKey = mask(c.LLM.APIKey)
	c.Currency.AppID = mask(c.Currency.AppID)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
