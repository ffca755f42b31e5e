// Package categorize handles transaction categorization commands
package categorize

import (
	"vtran/txn-categorizer/cmd/common"
	"vtran/txn-categorizer/cmd/root"
	"vtran/txn-categorizer/internal/validation"

	"github.com/spf13/cobra"
)

var (
	categoriesFile   string
	transactionsFile string
	outputFile       string
	outputFormat     string
	printResult      bool
	reportFile       string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize transactions from an Excel ledger",
	Long: `Categorize transactions from an Excel ledger using a category list.
Remarks are expanded with the abbreviation dictionary before being sent to the
language model; the categorized rows are written to an xlsx or csv file.`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&categoriesFile, "categories", "c", "", "Category list (.xlsx or .xls)")
	Cmd.Flags().StringVarP(&transactionsFile, "transactions", "t", "", "Transaction ledger (.xlsx or .xls)")
	Cmd.Flags().StringVarP(&root.AbbreviationsFile, "abbreviations", "a", "", "Abbreviation dictionary (.xlsx or .xls)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default from config)")
	Cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format: xlsx or csv (default from config)")
	Cmd.Flags().BoolVar(&printResult, "print", true, "Print the categorized table")
	Cmd.Flags().StringVarP(&reportFile, "report", "r", "", "Write a run summary (.json or .yaml)")
	_ = Cmd.MarkFlagRequired("categories")
	_ = Cmd.MarkFlagRequired("transactions")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Categorize command called")

	cfg := root.Config()
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if err := validation.IsValidOutputFormat(cfg.Output.Format); err != nil {
		root.Log.Fatalf("%v", err)
	}
	for _, path := range []string{categoriesFile, transactionsFile} {
		if err := validation.IsValidSpreadsheet(path); err != nil {
			root.Log.Fatalf("Invalid input: %v", err)
		}
	}

	c, err := root.GetContainer()
	if err != nil {
		root.Log.Fatalf("Error initializing: %v", err)
	}

	result, err := c.GetPipeline().RunFiles(cmd.Context(), categoriesFile, transactionsFile)
	if err != nil {
		root.Log.Fatal(common.RunErrorMessage(err))
	}

	if printResult {
		common.PrintResult(cmd.OutOrStdout(), result, cfg.Input.PreviewRows)
	}

	path, err := common.WriteResult(result, outputFile, cfg.Output, c.GetLogger())
	if err != nil {
		root.Log.Fatalf("Error writing output: %v", err)
	}
	root.Log.Infof("Categorized %d transactions into %s", len(result.Categorized), path)

	if reportFile != "" {
		if err := common.WriteReport(result, c.GetLLMClient().Name(), reportFile, c.GetLogger()); err != nil {
			root.Log.Fatalf("Error writing report: %v", err)
		}
	}
}
