// Package settings exposes the effective configuration
package settings

import (
	"fmt"
	"io"

	"vtran/txn-categorizer/cmd/root"
	"vtran/txn-categorizer/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long:  `Inspect the configuration built from defaults, config.yaml, environment and flags.`,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long:  `Print the effective configuration as YAML. The API key is never printed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := Show(cmd.OutOrStdout(), root.Config()); err != nil {
			root.Log.Fatalf("Error printing configuration: %v", err)
		}
	},
}

func init() {
	Cmd.AddCommand(showCmd)
}

// Show writes cfg to w as YAML.
func Show(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return enc.Close()
}
