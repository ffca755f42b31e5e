// Package root contains the root command for the application
package root

import (
	"sync"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/container"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Provider   string
	Model      string
	Language   string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "txcat",
		Short: "Categorize bank transactions with a local language model.",
		Long: `txcat reads a transaction ledger and a category list from Excel files,
expands abbreviations in the transaction remarks, and asks a language model
(Ollama by default, Gemini optionally) to assign each transaction a category.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to txcat!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := LoadConfig()
			if err != nil {
				Log.Fatalf("Error loading configuration: %v", err)
			}
			appConfig = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer == nil {
				return
			}
			if err := appContainer.Close(); err != nil {
				Log.Warnf("Failed to close LLM client: %v", err)
			}
			appContainer = nil
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// AbbreviationsFile is set by commands that take an abbreviation dictionary.
	AbbreviationsFile string

	appConfig    *config.Config
	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: ./config.yaml or $HOME/.txn-categorizer/config.yaml)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.Provider, "provider", "", "LLM provider (ollama, gemini)")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Model, "model", "m", "", "LLM model name")
		Cmd.PersistentFlags().StringVar(&SharedFlags.Language, "lang", "", "Prompt language (vi, en)")
	})
}

// LoadConfig loads the configuration and applies command-line overrides.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(SharedFlags.ConfigFile)
	if err != nil {
		return nil, err
	}
	ApplyOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides copies non-empty command-line flags onto cfg.
func ApplyOverrides(cfg *config.Config) {
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if SharedFlags.Provider != "" {
		cfg.LLM.Provider = SharedFlags.Provider
	}
	if SharedFlags.Model != "" {
		cfg.LLM.Model = SharedFlags.Model
	}
	if SharedFlags.Language != "" {
		cfg.Prompt.Language = SharedFlags.Language
	}
	if AbbreviationsFile != "" {
		// An explicitly named dictionary must exist.
		cfg.Abbreviations.File = AbbreviationsFile
		cfg.Abbreviations.Required = true
	}
}

// Config returns the configuration loaded for the running command, falling
// back to defaults when no command has run yet.
func Config() *config.Config {
	if appConfig == nil {
		appConfig = config.Default()
	}
	return appConfig
}

// GetContainer builds the dependency container on first use. Commands that
// never talk to the model do not pay for it.
func GetContainer() (*container.Container, error) {
	if appContainer != nil {
		return appContainer, nil
	}
	c, err := container.NewContainer(Config())
	if err != nil {
		return nil, err
	}
	appContainer = c
	return c, nil
}
