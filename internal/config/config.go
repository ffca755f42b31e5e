// Package config loads application settings. Environment files are read with
// godotenv; the structured configuration lives in viper.go.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// EnvFileCandidates lists where LoadEnv looks for a .env file, in order.
var EnvFileCandidates = []string{".env", filepath.Join("..", ".env")}

// LoadEnv loads the first .env file found in EnvFileCandidates. Variables
// already present in the environment are not overwritten. It returns the file
// that was loaded, or "" when none was found. Only the first call has effect.
func LoadEnv() string {
	var loaded string
	envOnce.Do(func() {
		loaded = loadEnvFrom(EnvFileCandidates)
	})
	return loaded
}

func loadEnvFrom(candidates []string) string {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return ""
		}
		return envFile
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
