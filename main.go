package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vtran/txn-categorizer/cmd/batch"
	"vtran/txn-categorizer/cmd/categorize"
	"vtran/txn-categorizer/cmd/expand"
	"vtran/txn-categorizer/cmd/root"
	"vtran/txn-categorizer/cmd/serve"
	"vtran/txn-categorizer/cmd/settings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Set the global log level before anything logs
	logLevel := configureLogLevelDirectly()
	root.Log.SetLevel(logLevel)

	// 3. Initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(expand.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(settings.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level from LOG_LEVEL
// and returns the configured level
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)

	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
