package settings_test

import (
	"bytes"
	"testing"

	"vtran/txn-categorizer/cmd/settings"
	"vtran/txn-categorizer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigCommand_Metadata(t *testing.T) {
	assert.Equal(t, "config", settings.Cmd.Use)
	require.Len(t, settings.Cmd.Commands(), 1)
	show := settings.Cmd.Commands()[0]
	assert.Equal(t, "show", show.Use)
	assert.NotNil(t, show.Run)
}

func TestShow(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "secret-key"
	cfg.LLM.Model = "mistral"

	var buf bytes.Buffer
	require.NoError(t, settings.Show(&buf, cfg))
	out := buf.String()

	assert.NotContains(t, out, "secret-key")
	assert.NotContains(t, out, "api_key")
	assert.Contains(t, out, "model: mistral")

	var decoded config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, cfg.Output, decoded.Output)
	assert.Equal(t, cfg.Abbreviations, decoded.Abbreviations)
	assert.Empty(t, decoded.LLM.APIKey)
}
