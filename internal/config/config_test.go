package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFrom(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TXCAT_TEST_ONLY=from-dotenv\n"), 0600))
	t.Setenv("TXCAT_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("TXCAT_TEST_ONLY"))

	loaded := loadEnvFrom([]string{filepath.Join(dir, "missing.env"), envFile})
	assert.Equal(t, envFile, loaded)
	assert.Equal(t, "from-dotenv", os.Getenv("TXCAT_TEST_ONLY"))
}

func TestLoadEnvFrom_NoCandidates(t *testing.T) {
	assert.Equal(t, "", loadEnvFrom([]string{filepath.Join(t.TempDir(), ".env")}))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TXCAT_GETENV_PROBE", "value")
	assert.Equal(t, "value", GetEnv("TXCAT_GETENV_PROBE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TXCAT_GETENV_PROBE_UNSET", "fallback"))
}
