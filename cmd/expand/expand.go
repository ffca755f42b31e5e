// Package expand handles abbreviation expansion of single remarks
package expand

import (
	"fmt"
	"strings"

	"vtran/txn-categorizer/cmd/root"

	"github.com/spf13/cobra"
)

var remark string

// Cmd represents the expand command
var Cmd = &cobra.Command{
	Use:   "expand [remark...]",
	Short: "Expand abbreviations in a transaction remark",
	Long: `Expand abbreviations in a transaction remark using the abbreviation
dictionary. Abbreviations with several candidate words are resolved by the
language model.`,
	Run: expandFunc,
}

func init() {
	Cmd.Flags().StringVarP(&remark, "remark", "r", "", "Remark to expand (or pass it as arguments)")
	Cmd.Flags().StringVarP(&root.AbbreviationsFile, "abbreviations", "a", "", "Abbreviation dictionary (.xlsx or .xls)")
}

// Remark returns the remark to expand: the --remark flag, else the
// arguments joined with spaces.
func Remark(flag string, args []string) string {
	if flag != "" {
		return flag
	}
	return strings.Join(args, " ")
}

func expandFunc(cmd *cobra.Command, args []string) {
	text := Remark(remark, args)
	if strings.TrimSpace(text) == "" {
		root.Log.Fatal("A remark is required: use --remark or pass it as arguments")
	}

	c, err := root.GetContainer()
	if err != nil {
		root.Log.Fatalf("Error initializing: %v", err)
	}
	if c.GetDictionary().Len() == 0 {
		root.Log.Warn("Abbreviation dictionary is empty, remark is returned unchanged")
	}

	expanded, err := c.GetExpander().Expand(cmd.Context(), text)
	if err != nil {
		root.Log.Fatalf("Error expanding remark: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), expanded)
}
