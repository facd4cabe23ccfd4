package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/user/shopchat/internal/errors"
)

// EnvPrefix is prepended to every environment variable the loader reads
const EnvPrefix = "SHOPCHAT"

// ProjectConfigFile is looked up in the working directory
const ProjectConfigFile = "shopchat.yaml"

// GlobalConfigFile is looked up in the user's home directory
const GlobalConfigFile = ".shopchat.yaml"

// legacyEnv maps config keys to the unprefixed variable names deployments
// commonly already export.
var legacyEnv = map[string]string{
	"llm.api_key":       "OPENAI_API_KEY",
	"currency.app_id":   "OPEN_EXCHANGE_APP_ID",
	"currency.base_url": "OPEN_EXCHANGE_BASE_URL",
	"catalog.csv_path":  "PRODUCTS_CSV_PATH",
}

// Loader handles loading configuration from multiple sources
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, legacy := range legacyEnv {
		_ = v.BindEnv(key, EnvPrefix+"_"+envKey(key), legacy)
	}

	return &Loader{v: v}
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setDefaults registers every key so AutomaticEnv can resolve it
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 300)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.metrics_enabled", true)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 180)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.retry.max_attempts", 3)
	v.SetDefault("llm.retry.multiplier", 1)
	v.SetDefault("llm.retry.max_wait_per_attempt", 10)
	v.SetDefault("llm.retry.max_total_wait", 60)

	v.SetDefault("chatbot.max_tool_rounds", 8)
	v.SetDefault("chatbot.schema_mode", SchemaModePerTool)
	v.SetDefault("chatbot.prompts_dir", "")

	v.SetDefault("currency.base_url", "https://openexchangerates.org/api")
	v.SetDefault("currency.app_id", "")
	v.SetDefault("currency.timeout", 30)

	v.SetDefault("catalog.csv_path", "")

	v.SetDefault("logging.log_dir", "")
	v.SetDefault("logging.file_level", "info")
	v.SetDefault("logging.console_level", "info")
}

// Load merges all sources and decodes them into a Config.
// Precedence: CLI > environment > configFile (or ./shopchat.yaml) > ~/.shopchat.yaml > defaults
func (l *Loader) Load(configFile string, cliOverrides map[string]interface{}) (*Config, error) {
	if err := l.loadGlobalConfig(); err != nil {
		return nil, err
	}

	if err := l.loadProjectConfig(configFile); err != nil {
		return nil, err
	}

	l.applyCLIOverrides(cliOverrides)

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           cfg,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}

	if err := decoder.Decode(l.v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Chatbot.SchemaMode = NormalizeSchemaMode(cfg.Chatbot.SchemaMode)

	return cfg, nil
}

// loadGlobalConfig loads configuration from ~/.shopchat.yaml
func (l *Loader) loadGlobalConfig() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil // Not a fatal error
	}

	globalConfig := filepath.Join(homeDir, GlobalConfigFile)
	if _, err := os.Stat(globalConfig); err != nil {
		return nil // File doesn't exist, skip
	}

	l.v.SetConfigFile(globalConfig)
	if err := l.v.MergeInConfig(); err != nil {
		return errors.NewConfigFileError(globalConfig, err)
	}

	return nil
}

// loadProjectConfig loads configFile, or ./shopchat.yaml when configFile is empty.
// An explicitly named file must exist.
func (l *Loader) loadProjectConfig(configFile string) error {
	explicit := configFile != ""
	if !explicit {
		configFile = ProjectConfigFile
	}

	if _, err := os.Stat(configFile); err != nil {
		if explicit {
			return errors.NewConfigFileError(configFile, err)
		}
		return nil
	}

	l.v.SetConfigFile(configFile)
	if err := l.v.MergeInConfig(); err != nil {
		return errors.NewConfigFileError(configFile, err)
	}

	return nil
}

// applyCLIOverrides applies CLI flag overrides
func (l *Loader) applyCLIOverrides(overrides map[string]interface{}) {
	for key, value := range overrides {
		// Only set if value is not nil/zero
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		l.v.Set(key, value)
	}
}

// Load is a convenience wrapper around NewLoader().Load followed by Validate
func Load(configFile string, cliOverrides map[string]interface{}) (*Config, error) {
	cfg, err := NewLoader().Load(configFile, cliOverrides)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
}

// Validate checks the settings every command needs before doing any work
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.NewMissingEnvVarError(EnvPrefix+"_LLM_API_KEY", "llm.api_key", "API key for the LLM provider")
	}

	if !validProviders[c.LLM.Provider] {
		return errors.NewInvalidEnvVarError(EnvPrefix+"_LLM_PROVIDER", c.LLM.Provider, "Must be one of: openai, anthropic")
	}

	if c.Currency.AppID == "" {
		return errors.NewMissingEnvVarError(EnvPrefix+"_CURRENCY_APP_ID", "currency.app_id", "App ID for the exchange-rate API")
	}

	if c.Catalog.CSVPath == "" {
		return errors.NewMissingEnvVarError(EnvPrefix+"_CATALOG_CSV_PATH", "catalog.csv_path", "Path to the product catalog CSV")
	}

	switch NormalizeSchemaMode(c.Chatbot.SchemaMode) {
	case SchemaModePerTool, SchemaModeShared:
	default:
		return errors.NewInvalidEnvVarError(EnvPrefix+"_CHATBOT_SCHEMA_MODE", c.Chatbot.SchemaMode, "Must be one of: per_tool, shared")
	}

	if c.Chatbot.MaxToolRounds < 0 {
		return errors.NewInvalidEnvVarError(EnvPrefix+"_CHATBOT_MAX_TOOL_ROUNDS", fmt.Sprintf("%d", c.Chatbot.MaxToolRounds), "Must not be negative")
	}

	return nil
}
