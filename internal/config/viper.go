// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TXCAT_LLM_MODEL.
const EnvPrefix = "TXCAT"

// LLM providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// LogConfig controls the logrus backend.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LLMConfig selects and tunes the language model backend.
type LLMConfig struct {
	Provider          string  `mapstructure:"provider" yaml:"provider"`
	Model             string  `mapstructure:"model" yaml:"model"`
	Host              string  `mapstructure:"host" yaml:"host"`
	Temperature       float64 `mapstructure:"temperature" yaml:"temperature"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	BatchSize         int     `mapstructure:"batch_size" yaml:"batch_size"`
	APIKey            string  `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// AbbreviationsConfig locates the abbreviation dictionary.
type AbbreviationsConfig struct {
	File               string `mapstructure:"file" yaml:"file"`
	Required           bool   `mapstructure:"required" yaml:"required"`
	CaseSensitive      bool   `mapstructure:"case_sensitive" yaml:"case_sensitive"`
	FullWordColumn     string `mapstructure:"full_word_column" yaml:"full_word_column"`
	AbbreviationColumn string `mapstructure:"abbreviation_column" yaml:"abbreviation_column"`
}

// InputConfig describes the uploaded ledger and category sheets.
type InputConfig struct {
	RemarkColumn   string `mapstructure:"remark_column" yaml:"remark_column"`
	AmountColumn   string `mapstructure:"amount_column" yaml:"amount_column"`
	CategoryColumn int    `mapstructure:"category_column" yaml:"category_column"`
	PreviewRows    int    `mapstructure:"preview_rows" yaml:"preview_rows"`
}

// CategorizationConfig holds response post-processing settings.
type CategorizationConfig struct {
	FallbackCategory string `mapstructure:"fallback_category" yaml:"fallback_category"`
}

// PromptConfig selects the prompt language.
type PromptConfig struct {
	Language string `mapstructure:"language" yaml:"language"`
}

// OutputConfig controls the categorized spreadsheet.
type OutputConfig struct {
	File      string `mapstructure:"file" yaml:"file"`
	Format    string `mapstructure:"format" yaml:"format"`
	Sheet     string `mapstructure:"sheet" yaml:"sheet"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ServerConfig controls the web UI.
type ServerConfig struct {
	Address     string `mapstructure:"address" yaml:"address"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	LLM            LLMConfig            `mapstructure:"llm" yaml:"llm"`
	Abbreviations  AbbreviationsConfig  `mapstructure:"abbreviations" yaml:"abbreviations"`
	Input          InputConfig          `mapstructure:"input" yaml:"input"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Prompt         PromptConfig         `mapstructure:"prompt" yaml:"prompt"`
	Output         OutputConfig         `mapstructure:"output" yaml:"output"`
	Server         ServerConfig         `mapstructure:"server" yaml:"server"`
}

// InitializeConfig loads configuration from the standard search path.
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load builds the configuration: defaults, then a YAML file (configFile when
// non-empty, otherwise config.yaml from the search path), then environment.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.txn-categorizer")
		v.AddConfigPath(".txn-categorizer")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// Provider-native variables are honoured without the prefix.
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("llm.host", EnvPrefix+"_LLM_HOST", "OLLAMA_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind OLLAMA_HOST: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration obtained from defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("llm.provider", ProviderOllama)
	v.SetDefault("llm.model", "mistral")
	v.SetDefault("llm.host", "http://localhost:11434")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.timeout_seconds", 120)
	v.SetDefault("llm.requests_per_minute", 0)
	v.SetDefault("llm.batch_size", 0)

	v.SetDefault("abbreviations.file", "data/abbreviation_dict.xlsx")
	v.SetDefault("abbreviations.required", false)
	v.SetDefault("abbreviations.case_sensitive", true)
	v.SetDefault("abbreviations.full_word_column", "Full_words")
	v.SetDefault("abbreviations.abbreviation_column", "Abbreviation")

	v.SetDefault("input.remark_column", "REMARK_CLEAN")
	v.SetDefault("input.amount_column", "AMOUNT")
	v.SetDefault("input.category_column", 0)
	v.SetDefault("input.preview_rows", 5)

	v.SetDefault("categorization.fallback_category", "Other")

	v.SetDefault("prompt.language", "vi")

	v.SetDefault("output.file", "categorized_transactions.xlsx")
	v.SetDefault("output.format", "xlsx")
	v.SetDefault("output.sheet", "Categorized")
	v.SetDefault("output.delimiter", ",")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.max_upload_mb", 32)
}

// Validate checks configuration values for consistency.
func Validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.LLM.Provider {
	case ProviderOllama:
		if strings.TrimSpace(config.LLM.Host) == "" {
			return fmt.Errorf("llm.host required for provider %s", ProviderOllama)
		}
	case ProviderGemini:
		if config.LLM.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when llm.provider is %s", ProviderGemini)
		}
	default:
		return fmt.Errorf("unknown llm.provider: %s (must be '%s' or '%s')", config.LLM.Provider, ProviderOllama, ProviderGemini)
	}

	if strings.TrimSpace(config.LLM.Model) == "" {
		return fmt.Errorf("llm.model must not be empty")
	}

	if config.LLM.TimeoutSeconds < 1 || config.LLM.TimeoutSeconds > 600 {
		return fmt.Errorf("llm.timeout_seconds must be between 1 and 600, got: %d", config.LLM.TimeoutSeconds)
	}

	if config.LLM.RequestsPerMinute < 0 || config.LLM.RequestsPerMinute > 1000 {
		return fmt.Errorf("llm.requests_per_minute must be between 0 and 1000, got: %d", config.LLM.RequestsPerMinute)
	}

	if config.LLM.BatchSize < 0 {
		return fmt.Errorf("llm.batch_size must not be negative, got: %d", config.LLM.BatchSize)
	}

	if config.LLM.Temperature < 0 || config.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got: %g", config.LLM.Temperature)
	}

	if strings.TrimSpace(config.Input.RemarkColumn) == "" {
		return fmt.Errorf("input.remark_column must not be empty")
	}

	if config.Input.CategoryColumn < 0 {
		return fmt.Errorf("input.category_column must not be negative, got: %d", config.Input.CategoryColumn)
	}

	if strings.TrimSpace(config.Categorization.FallbackCategory) == "" {
		return fmt.Errorf("categorization.fallback_category must not be empty")
	}

	switch config.Prompt.Language {
	case "vi", "en":
	default:
		return fmt.Errorf("unsupported prompt.language: %s (must be 'vi' or 'en')", config.Prompt.Language)
	}

	switch config.Output.Format {
	case "xlsx", "csv":
	default:
		return fmt.Errorf("unsupported output.format: %s (must be 'xlsx' or 'csv')", config.Output.Format)
	}

	if len([]rune(config.Output.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.Output.Delimiter)
	}

	if config.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive, got: %d", config.Server.MaxUploadMB)
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Config.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
