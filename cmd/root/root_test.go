package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"vtran/txn-categorizer/cmd/root"
	"vtran/txn-categorizer/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "txcat", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Categorize bank transactions")
	assert.Contains(t, root.Cmd.Long, "txcat reads a transaction ledger")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init() // idempotent

	for _, name := range []string{"config", "log-level", "log-format", "provider", "model", "lang"} {
		assert.NotNil(t, root.Cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "m", root.Cmd.PersistentFlags().Lookup("model").Shorthand)
}

func TestRootCommand_Type(t *testing.T) {
	assert.IsType(t, &cobra.Command{}, root.Cmd)
}

func resetFlags(t *testing.T) {
	t.Helper()
	saved := root.SharedFlags
	savedAbbr := root.AbbreviationsFile
	t.Cleanup(func() {
		root.SharedFlags = saved
		root.AbbreviationsFile = savedAbbr
	})
	root.SharedFlags = root.CommonFlags{}
	root.AbbreviationsFile = ""
}

func TestApplyOverrides(t *testing.T) {
	resetFlags(t)
	root.SharedFlags = root.CommonFlags{
		LogLevel:  "debug",
		LogFormat: "json",
		Provider:  config.ProviderGemini,
		Model:     "gemini-1.5-pro",
		Language:  "en",
	}
	root.AbbreviationsFile = "abbr.xlsx"

	cfg := config.Default()
	root.ApplyOverrides(cfg)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, config.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.Model)
	assert.Equal(t, "en", cfg.Prompt.Language)
	assert.Equal(t, "abbr.xlsx", cfg.Abbreviations.File)
	assert.True(t, cfg.Abbreviations.Required)
}

func TestApplyOverrides_EmptyFlagsKeepConfig(t *testing.T) {
	resetFlags(t)

	cfg := config.Default()
	before := *cfg
	root.ApplyOverrides(cfg)
	assert.Equal(t, before, *cfg)
}

func TestLoadConfig_FromFile(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: llama3\nprompt:\n  language: en\n"), 0600))
	root.SharedFlags.ConfigFile = path

	cfg, err := root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "en", cfg.Prompt.Language)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	resetFlags(t)
	root.SharedFlags.Language = "fr"

	_, err := root.LoadConfig()
	assert.Error(t, err)
}

func TestConfig_DefaultsBeforeRun(t *testing.T) {
	cfg := root.Config()
	require.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.Output.File)
}
