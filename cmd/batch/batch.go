// Package batch handles batch processing of files
package batch

import (
	"vtran/txn-categorizer/cmd/root"
	"vtran/txn-categorizer/internal/batch"
	"vtran/txn-categorizer/internal/spreadsheet"
	"vtran/txn-categorizer/internal/validation"

	"github.com/spf13/cobra"
)

var (
	categoriesFile string
	inputDir       string
	outputDir      string
	outputFormat   string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch categorize ledgers from a directory",
	Long: `Batch categorize every .xlsx/.xls ledger in an input directory against one
category list. Each ledger is categorized independently and written to the
output directory as <name>_categorized.xlsx (or .csv).

Example:
  txcat batch -c categories.xlsx -i ledgers/ -o categorized/`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&categoriesFile, "categories", "c", "", "Category list (.xlsx or .xls)")
	Cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of ledgers")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory")
	Cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format: xlsx or csv (default from config)")
	Cmd.Flags().StringVarP(&root.AbbreviationsFile, "abbreviations", "a", "", "Abbreviation dictionary (.xlsx or .xls)")
	_ = Cmd.MarkFlagRequired("categories")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("output")
}

func batchFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Batch command called")
	root.Log.Infof("Input directory: %s", inputDir)
	root.Log.Infof("Output directory: %s", outputDir)

	cfg := root.Config()
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if err := validation.IsValidOutputFormat(cfg.Output.Format); err != nil {
		root.Log.Fatalf("%v", err)
	}
	if err := validation.IsValidSpreadsheet(categoriesFile); err != nil {
		root.Log.Fatalf("Invalid category list: %v", err)
	}
	if err := validation.IsValidPath(inputDir); err != nil {
		root.Log.Fatalf("Invalid input directory: %v", err)
	}

	exclude := []string{categoriesFile}
	if root.AbbreviationsFile != "" {
		exclude = append(exclude, root.AbbreviationsFile)
	}
	inputs, err := batch.FindLedgers(inputDir, exclude...)
	if err != nil {
		root.Log.Fatalf("Error listing ledgers: %v", err)
	}
	if len(inputs) == 0 {
		root.Log.Warn("No spreadsheets found in input directory")
		return
	}

	categories, err := spreadsheet.ReadFile(categoriesFile)
	if err != nil {
		root.Log.Fatalf("Error reading categories: %v", err)
	}

	c, err := root.GetContainer()
	if err != nil {
		root.Log.Fatalf("Error initializing: %v", err)
	}

	processor := batch.NewProcessor(c.GetPipeline(), cfg.Output, c.GetLogger())
	results, err := processor.Process(cmd.Context(), categories, inputs, outputDir)
	if err != nil {
		root.Log.Fatalf("Error during batch categorization: %v", err)
	}

	root.Log.Infof("Batch processing completed. %d of %d ledgers categorized.", batch.Succeeded(results), len(results))
}
